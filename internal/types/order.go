package types

import "time"

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return "UNKNOWN"
}

// Opposite returns the book side an order of this side matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Order is a limit order. Everything except Quantity is fixed once the
// order has been accepted; Quantity is decremented by the matching engine
// on partial fills and an order leaves the book when it reaches zero.
type Order struct {
	ID         string    `json:"order_id"`
	Trader     string    `json:"trader"`
	Instrument string    `json:"instrument"`
	Side       Side      `json:"side"`
	Quantity   int64     `json:"quantity"`
	Price      float64   `json:"price"`
	Sequence   uint64    `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Validate checks the semantic invariants an order must satisfy before it
// is allowed anywhere near a book.
func (o *Order) Validate() error {
	if o.Side != Buy && o.Side != Sell {
		return ErrInvalidOrder
	}
	if o.Quantity <= 0 {
		return ErrInvalidOrder
	}
	if o.Price <= 0 {
		return ErrInvalidOrder
	}
	return nil
}
