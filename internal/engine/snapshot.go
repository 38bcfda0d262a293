package engine

import (
	"sort"

	"exchange/internal/book"
	"exchange/internal/types"
)

// TopOfBook is a read-only snapshot of one instrument's best levels.
type TopOfBook struct {
	Instrument string
	BestBid    *book.Level
	BestAsk    *book.Level
	Halted     bool
}

// Snapshot returns the top of book for an instrument, or false if no book
// exists for it yet. The view is consistent for a single instrument only;
// callers must not stitch multi-instrument views together from repeated
// calls and expect them to be coherent.
func (e *Engine) Snapshot(instrument string) (TopOfBook, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.books[instrument]
	if !ok {
		return TopOfBook{}, false
	}

	top := TopOfBook{
		Instrument: instrument,
		Halted:     e.halted[instrument],
	}
	if level, ok := b.BestQuote(types.Buy); ok {
		top.BestBid = &level
	}
	if level, ok := b.BestQuote(types.Sell); ok {
		top.BestAsk = &level
	}
	return top, true
}

// Instruments returns the instruments with a live book, sorted.
func (e *Engine) Instruments() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.books))
	for name := range e.books {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns the running order and trade counters.
func (e *Engine) Stats() (orders, trades uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ordersProcessed, e.tradesEmitted
}
