package book

import (
	"github.com/tidwall/btree"

	"exchange/internal/types"
)

// priceLevel holds the resting orders at one price, in arrival order.
// Orders are appended on insert and consumed from the front, which keeps
// FIFO time priority within the level.
type priceLevel struct {
	price  float64
	orders []*types.Order
}

type priceLevels = btree.BTreeG[*priceLevel]

// Level is an aggregated view of one price level, for snapshots.
type Level struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Orders   int     `json:"orders"`
}

// OrderBook holds the resting orders for a single instrument. Both sides
// are price-level btrees sorted best-first, so the minimum of either tree
// is the top of book for that side.
//
// The book is not safe for concurrent use; the owning engine serializes
// access to it.
type OrderBook struct {
	instrument string

	bids *priceLevels
	asks *priceLevels

	bidVolume int64
	askVolume int64
}

func New(instrument string) *OrderBook {
	// Bids sorted greatest first, asks least first.
	bids := btree.NewBTreeG(func(a, b *priceLevel) bool {
		return a.price > b.price
	})
	asks := btree.NewBTreeG(func(a, b *priceLevel) bool {
		return a.price < b.price
	})
	return &OrderBook{
		instrument: instrument,
		bids:       bids,
		asks:       asks,
	}
}

func (b *OrderBook) Instrument() string {
	return b.instrument
}

func (b *OrderBook) side(side types.Side) *priceLevels {
	if side == types.Buy {
		return b.bids
	}
	return b.asks
}

// Insert adds a resting order to its own side of the book.
func (b *OrderBook) Insert(order *types.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	levels := b.side(order.Side)
	level, ok := levels.GetMut(&priceLevel{price: order.Price})
	if ok {
		level.orders = append(level.orders, order)
	} else {
		levels.Set(&priceLevel{
			price:  order.Price,
			orders: []*types.Order{order},
		})
	}

	if order.Side == types.Buy {
		b.bidVolume += order.Quantity
	} else {
		b.askVolume += order.Quantity
	}
	return nil
}

// PeekBest returns the best-ranked resting order on the given side without
// removing it.
func (b *OrderBook) PeekBest(side types.Side) (*types.Order, bool) {
	level, ok := b.side(side).MinMut()
	if !ok {
		return nil, false
	}
	return level.orders[0], true
}

// ReduceOrRemoveBest decrements the best order on the given side by the
// filled quantity, removing it (and an emptied price level) when it is
// fully consumed. Over-reducing is an InvariantViolationError: the
// matching loop sizes fills by the resting quantity, so a larger fill can
// only mean the algorithm itself is broken.
func (b *OrderBook) ReduceOrRemoveBest(side types.Side, filled int64) error {
	levels := b.side(side)
	level, ok := levels.MinMut()
	if !ok {
		return &types.InvariantViolationError{
			Instrument: b.instrument,
			Detail:     "reduce on empty book side",
		}
	}

	order := level.orders[0]
	if filled <= 0 || filled > order.Quantity {
		return &types.InvariantViolationError{
			Instrument: b.instrument,
			Detail:     "fill exceeds resting quantity",
		}
	}

	order.Quantity -= filled
	if order.Quantity == 0 {
		level.orders = level.orders[1:]
		if len(level.orders) == 0 {
			levels.Delete(level)
		}
	}

	if side == types.Buy {
		b.bidVolume -= filled
	} else {
		b.askVolume -= filled
	}
	return nil
}

// BestPrices returns the top-of-book prices. Either side may be absent.
func (b *OrderBook) BestPrices() (bid, ask float64, hasBid, hasAsk bool) {
	if level, ok := b.bids.MinMut(); ok {
		bid, hasBid = level.price, true
	}
	if level, ok := b.asks.MinMut(); ok {
		ask, hasAsk = level.price, true
	}
	return bid, ask, hasBid, hasAsk
}

// BestQuote returns the aggregated top level of one side.
func (b *OrderBook) BestQuote(side types.Side) (Level, bool) {
	level, ok := b.side(side).MinMut()
	if !ok {
		return Level{}, false
	}
	return aggregate(level), true
}

// Depth returns up to maxLevels aggregated levels of one side, best first.
func (b *OrderBook) Depth(side types.Side, maxLevels int) []Level {
	out := make([]Level, 0, maxLevels)
	b.side(side).Scan(func(level *priceLevel) bool {
		out = append(out, aggregate(level))
		return len(out) < maxLevels
	})
	return out
}

// Volume returns the total resting quantity on one side.
func (b *OrderBook) Volume(side types.Side) int64 {
	if side == types.Buy {
		return b.bidVolume
	}
	return b.askVolume
}

func aggregate(level *priceLevel) Level {
	var qty int64
	for _, order := range level.orders {
		qty += order.Quantity
	}
	return Level{
		Price:    level.price,
		Quantity: qty,
		Orders:   len(level.orders),
	}
}
