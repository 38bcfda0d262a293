package engine_test

import (
	"errors"
	"fmt"
	"testing"

	"exchange/internal/engine"
	"exchange/internal/types"
)

var nextSeq uint64

func order(trader string, side types.Side, qty int64, price float64) *types.Order {
	nextSeq++
	return &types.Order{
		ID:         fmt.Sprintf("order-%d", nextSeq),
		Trader:     trader,
		Instrument: "XYZ",
		Side:       side,
		Quantity:   qty,
		Price:      price,
		Sequence:   nextSeq,
	}
}

// assertNotCrossed checks that the book is never left crossed after a
// submission completes.
func assertNotCrossed(t *testing.T, e *engine.Engine, instrument string) {
	t.Helper()
	top, ok := e.Snapshot(instrument)
	if !ok {
		return
	}
	if top.BestBid != nil && top.BestAsk != nil && top.BestBid.Price >= top.BestAsk.Price {
		t.Fatalf("crossed book: bid %f >= ask %f", top.BestBid.Price, top.BestAsk.Price)
	}
}

func TestSubmitRejectsInvalidOrder(t *testing.T) {
	e := engine.New()

	bad := order("A", types.Buy, 0, 50.0)
	trades, err := e.Submit(bad)
	if !errors.Is(err, types.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %d", len(trades))
	}

	// An invalid order must not create a book.
	if _, ok := e.Snapshot("XYZ"); ok {
		t.Error("invalid order must not mutate any book")
	}
}

func TestSubmitRestsWithoutLiquidity(t *testing.T) {
	e := engine.New()

	trades, err := e.Submit(order("A", types.Sell, 100, 50.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected 0 trades, got %d", len(trades))
	}

	top, ok := e.Snapshot("XYZ")
	if !ok || top.BestAsk == nil {
		t.Fatal("expected a resting ask")
	}
	if top.BestAsk.Price != 50.0 || top.BestAsk.Quantity != 100 {
		t.Errorf("resting ask should be unchanged, got %+v", top.BestAsk)
	}
}

func TestIncompatiblePriceRests(t *testing.T) {
	e := engine.New()
	e.Submit(order("A", types.Sell, 100, 50.0))

	// 49 < 50: no cross, the buy rests.
	trades, err := e.Submit(order("B", types.Buy, 50, 49.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected 0 trades, got %d", len(trades))
	}

	top, _ := e.Snapshot("XYZ")
	if top.BestBid == nil || top.BestBid.Price != 49.0 || top.BestBid.Quantity != 50 {
		t.Errorf("expected bid 50@49.0, got %+v", top.BestBid)
	}
	assertNotCrossed(t, e, "XYZ")
}

func TestTradeAtRestingPrice(t *testing.T) {
	e := engine.New()
	e.Submit(order("A", types.Sell, 100, 50.0))

	trades, err := e.Submit(order("B", types.Buy, 60, 51.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}

	trade := trades[0]
	if trade.Price != 50.0 {
		t.Errorf("trade must execute at resting price 50.0, got %f", trade.Price)
	}
	if trade.Buyer != "B" || trade.Seller != "A" {
		t.Errorf("wrong counterparties: buyer=%s seller=%s", trade.Buyer, trade.Seller)
	}
	if trade.Quantity != 60 {
		t.Errorf("expected quantity 60, got %d", trade.Quantity)
	}

	top, _ := e.Snapshot("XYZ")
	if top.BestAsk == nil || top.BestAsk.Quantity != 40 {
		t.Errorf("expected 40 left on the ask, got %+v", top.BestAsk)
	}
}

func TestSellAggressorGetsRestingBidPrice(t *testing.T) {
	e := engine.New()
	e.Submit(order("C", types.Buy, 50, 49.0))

	trades, _ := e.Submit(order("D", types.Sell, 40, 48.0))
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Price != 49.0 {
		t.Errorf("sell aggressor must receive the resting bid price 49.0, got %f", trades[0].Price)
	}
	if trades[0].Buyer != "C" || trades[0].Seller != "D" {
		t.Errorf("wrong counterparties: %+v", trades[0])
	}
}

func TestSweepAcrossLevels(t *testing.T) {
	e := engine.New()
	e.Submit(order("A", types.Sell, 5, 101.0))
	e.Submit(order("B", types.Sell, 10, 102.0))
	e.Submit(order("C", types.Sell, 8, 103.0))

	trades, err := e.Submit(order("D", types.Buy, 20, 103.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(trades))
	}

	want := []struct {
		price float64
		qty   int64
	}{
		{101.0, 5},
		{102.0, 10},
		{103.0, 5},
	}
	for i, w := range want {
		if trades[i].Price != w.price || trades[i].Quantity != w.qty {
			t.Errorf("trade %d: expected %d@%f, got %d@%f",
				i, w.qty, w.price, trades[i].Quantity, trades[i].Price)
		}
	}

	// 5 + 10 + 5 consumed, the aggressor is fully filled.
	top, _ := e.Snapshot("XYZ")
	if top.BestBid != nil {
		t.Errorf("fully filled aggressor must not rest, got %+v", top.BestBid)
	}
	if top.BestAsk == nil || top.BestAsk.Quantity != 3 {
		t.Errorf("expected 3 left at 103.0, got %+v", top.BestAsk)
	}
	assertNotCrossed(t, e, "XYZ")
}

func TestPriceTimePriority(t *testing.T) {
	e := engine.New()
	e.Submit(order("early", types.Sell, 30, 50.0))
	e.Submit(order("late", types.Sell, 30, 50.0))

	// Crosses 40: must exhaust "early" before touching "late".
	trades, _ := e.Submit(order("B", types.Buy, 40, 50.0))
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].Seller != "early" || trades[0].Quantity != 30 {
		t.Errorf("first trade must fully consume the earlier order, got %+v", trades[0])
	}
	if trades[1].Seller != "late" || trades[1].Quantity != 10 {
		t.Errorf("second trade must come from the later order, got %+v", trades[1])
	}
}

func TestQuantityConservation(t *testing.T) {
	e := engine.New()
	e.Submit(order("A", types.Sell, 25, 50.0))
	e.Submit(order("B", types.Sell, 25, 51.0))

	incoming := order("C", types.Buy, 80, 51.0)
	trades, err := e.Submit(incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var filled int64
	for _, trade := range trades {
		if trade.Quantity <= 0 {
			t.Errorf("trade quantity must be positive, got %d", trade.Quantity)
		}
		filled += trade.Quantity
	}

	top, _ := e.Snapshot("XYZ")
	var residual int64
	if top.BestBid != nil {
		residual = top.BestBid.Quantity
	}
	if filled+residual != 80 {
		t.Errorf("filled %d + residual %d != original 80", filled, residual)
	}
}

func TestSelfTradeIsAllowed(t *testing.T) {
	e := engine.New()
	e.Submit(order("A", types.Sell, 10, 50.0))

	trades, _ := e.Submit(order("A", types.Buy, 10, 50.0))
	if len(trades) != 1 {
		t.Fatalf("expected self-trade to execute, got %d trades", len(trades))
	}
	if trades[0].Buyer != "A" || trades[0].Seller != "A" {
		t.Errorf("expected A on both sides, got %+v", trades[0])
	}
}

func TestBooksAreIndependentPerInstrument(t *testing.T) {
	e := engine.New()

	abc := order("A", types.Sell, 10, 50.0)
	abc.Instrument = "ABC"
	e.Submit(abc)

	// A crossing buy on XYZ must not touch ABC's liquidity.
	trades, _ := e.Submit(order("B", types.Buy, 10, 51.0))
	if len(trades) != 0 {
		t.Errorf("expected no cross-instrument matching, got %d trades", len(trades))
	}

	instruments := e.Instruments()
	if len(instruments) != 2 || instruments[0] != "ABC" || instruments[1] != "XYZ" {
		t.Errorf("expected [ABC XYZ], got %v", instruments)
	}
}

// TestTradingSession replays a short session and checks every book state
// along the way.
func TestTradingSession(t *testing.T) {
	e := engine.New()

	trades, _ := e.Submit(order("A", types.Sell, 100, 50.0))
	if len(trades) != 0 {
		t.Fatalf("step 1: expected 0 trades, got %d", len(trades))
	}

	trades, _ = e.Submit(order("B", types.Buy, 60, 51.0))
	if len(trades) != 1 || trades[0].Buyer != "B" || trades[0].Seller != "A" ||
		trades[0].Price != 50.0 || trades[0].Quantity != 60 {
		t.Fatalf("step 2: unexpected trades %+v", trades)
	}
	top, _ := e.Snapshot("XYZ")
	if top.BestAsk == nil || top.BestAsk.Quantity != 40 || top.BestAsk.Price != 50.0 {
		t.Fatalf("step 2: expected ask 40@50.0, got %+v", top.BestAsk)
	}

	trades, _ = e.Submit(order("C", types.Buy, 50, 49.0))
	if len(trades) != 0 {
		t.Fatalf("step 3: expected 0 trades, got %d", len(trades))
	}
	assertNotCrossed(t, e, "XYZ")

	trades, _ = e.Submit(order("D", types.Sell, 40, 48.0))
	if len(trades) != 1 || trades[0].Buyer != "C" || trades[0].Seller != "D" ||
		trades[0].Price != 49.0 || trades[0].Quantity != 40 {
		t.Fatalf("step 4: unexpected trades %+v", trades)
	}
	top, _ = e.Snapshot("XYZ")
	if top.BestBid == nil || top.BestBid.Quantity != 10 || top.BestBid.Price != 49.0 {
		t.Fatalf("step 4: expected bid 10@49.0, got %+v", top.BestBid)
	}
	assertNotCrossed(t, e, "XYZ")

	orders, tradeCount := e.Stats()
	if orders != 4 || tradeCount != 2 {
		t.Errorf("expected 4 orders and 2 trades processed, got %d and %d", orders, tradeCount)
	}
}
