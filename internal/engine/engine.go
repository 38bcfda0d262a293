package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"exchange/internal/book"
	"exchange/internal/types"
)

// ErrInstrumentHalted is returned for submissions against an instrument
// whose book was frozen after an invariant violation.
var ErrInstrumentHalted = errors.New("instrument halted")

// Engine owns one order book per instrument and matches incoming orders
// against them. Books are created lazily on the first order for a new
// instrument and live for the process lifetime.
//
// Matching is strictly serial: Submit processes one order to completion
// before the next, which is what keeps the books uncrossed and price-time
// ordered without per-book locking. The mutex only exists so that the
// read-only snapshot accessors can be served from other goroutines.
type Engine struct {
	mu     sync.Mutex
	books  map[string]*book.OrderBook
	halted map[string]bool

	ordersProcessed uint64
	tradesEmitted   uint64
}

func New() *Engine {
	return &Engine{
		books:  make(map[string]*book.OrderBook),
		halted: make(map[string]bool),
	}
}

func (e *Engine) bookFor(instrument string) *book.OrderBook {
	b, ok := e.books[instrument]
	if !ok {
		b = book.New(instrument)
		e.books[instrument] = b
	}
	return b
}

// Submit matches an incoming order against the opposite side of its
// instrument's book and returns the resulting trades in execution order.
// Unmatched quantity rests in the book. An invalid order leaves every book
// untouched. An invariant violation halts the instrument and is returned
// together with the trades produced before the failure.
func (e *Engine) Submit(order *types.Order) ([]*types.Trade, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.halted[order.Instrument] {
		return nil, fmt.Errorf("%w: %s", ErrInstrumentHalted, order.Instrument)
	}

	b := e.bookFor(order.Instrument)
	opposite := order.Side.Opposite()
	remaining := order.Quantity

	var trades []*types.Trade
	for remaining > 0 {
		resting, ok := b.PeekBest(opposite)
		if !ok {
			break
		}
		if !crosses(order, resting) {
			// The opposite side is ordered best-first, so nothing
			// deeper can cross either.
			break
		}

		fill := remaining
		if resting.Quantity < fill {
			fill = resting.Quantity
		}

		trades = append(trades, newTrade(order, resting, fill))

		if err := b.ReduceOrRemoveBest(opposite, fill); err != nil {
			e.halted[order.Instrument] = true
			return trades, err
		}
		remaining -= fill
	}

	if remaining > 0 {
		residual := *order
		residual.Quantity = remaining
		if err := b.Insert(&residual); err != nil {
			return trades, err
		}
	}

	e.ordersProcessed++
	e.tradesEmitted += uint64(len(trades))
	return trades, nil
}

// crosses reports whether the incoming order's limit is compatible with
// the best resting order's price.
func crosses(incoming, resting *types.Order) bool {
	if incoming.Side == types.Buy {
		return incoming.Price >= resting.Price
	}
	return incoming.Price <= resting.Price
}

// newTrade executes at the resting order's price: price improvement
// accrues to the aggressor, never to the resting side.
func newTrade(incoming, resting *types.Order, quantity int64) *types.Trade {
	trade := &types.Trade{
		Instrument:   incoming.Instrument,
		Price:        resting.Price,
		Quantity:     quantity,
		Timestamp:    time.Now().UTC(),
		TakerOrderID: incoming.ID,
	}
	if incoming.Side == types.Buy {
		trade.Buyer = incoming.Trader
		trade.Seller = resting.Trader
	} else {
		trade.Buyer = resting.Trader
		trade.Seller = incoming.Trader
	}
	return trade
}
