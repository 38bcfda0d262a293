// Package wire translates between the JSON payloads on the external
// channel and the engine's domain values. Inbound orders are validated
// here so that nothing malformed ever reaches the matching engine.
package wire

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"exchange/internal/types"
)

// OrderMessage is the inbound payload on the orders channel. Timestamp is
// producer-assigned; it is informational and not used for matching
// priority (sequence is assigned at ingestion).
type OrderMessage struct {
	Username  string  `json:"username"`
	Stock     string  `json:"stock"`
	Side      string  `json:"side"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
}

// TradeMessage is the outbound payload on the trades channel.
type TradeMessage struct {
	Stock     string    `json:"stock"`
	Buyer     string    `json:"buyer"`
	Seller    string    `json:"seller"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// Accepted inbound timestamp layouts. Python's isoformat() omits the
// timezone, so RFC 3339 alone is not enough.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Decoder turns inbound payloads into validated orders, assigning each an
// id and a monotonically increasing sequence number. The sequence is the
// tie-breaker for price-equal resting orders, so a single decoder must
// front a single engine.
type Decoder struct {
	seq atomic.Uint64
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodeOrder parses and validates one inbound payload. Parse failures
// and missing fields wrap ErrMalformedMessage; semantic failures wrap
// ErrInvalidOrder.
func (d *Decoder) DecodeOrder(payload []byte) (*types.Order, error) {
	var msg OrderMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedMessage, err)
	}

	if strings.TrimSpace(msg.Username) == "" {
		return nil, fmt.Errorf("%w: missing username", types.ErrMalformedMessage)
	}
	if strings.TrimSpace(msg.Stock) == "" {
		return nil, fmt.Errorf("%w: missing stock", types.ErrMalformedMessage)
	}
	if strings.TrimSpace(msg.Side) == "" {
		return nil, fmt.Errorf("%w: missing side", types.ErrMalformedMessage)
	}

	side, err := parseSide(msg.Side)
	if err != nil {
		return nil, err
	}
	if msg.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d",
			types.ErrInvalidOrder, msg.Quantity)
	}
	if msg.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive, got %v",
			types.ErrInvalidOrder, msg.Price)
	}

	timestamp, err := parseTimestamp(msg.Timestamp)
	if err != nil {
		return nil, err
	}

	return &types.Order{
		ID:         uuid.New().String(),
		Trader:     strings.TrimSpace(msg.Username),
		Instrument: strings.ToUpper(strings.TrimSpace(msg.Stock)),
		Side:       side,
		Quantity:   msg.Quantity,
		Price:      msg.Price,
		Sequence:   d.seq.Add(1),
		Timestamp:  timestamp,
	}, nil
}

// EncodeTrade serializes a trade for the trades channel.
func EncodeTrade(trade *types.Trade) ([]byte, error) {
	return json.Marshal(TradeMessage{
		Stock:     trade.Instrument,
		Buyer:     trade.Buyer,
		Seller:    trade.Seller,
		Price:     trade.Price,
		Quantity:  trade.Quantity,
		Timestamp: trade.Timestamp,
	})
}

// DecodeTrade parses an outbound trade payload; used by consumers of the
// trades channel.
func DecodeTrade(payload []byte) (*TradeMessage, error) {
	var msg TradeMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedMessage, err)
	}
	return &msg, nil
}

func parseSide(raw string) (types.Side, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY":
		return types.Buy, nil
	case "SELL":
		return types.Sell, nil
	default:
		return 0, fmt.Errorf("%w: unknown side %q", types.ErrInvalidOrder, raw)
	}
}

func parseTimestamp(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, fmt.Errorf("%w: missing timestamp", types.ErrMalformedMessage)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q",
		types.ErrMalformedMessage, raw)
}
