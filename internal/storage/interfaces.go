package storage

import "exchange/internal/types"

// TradeStore abstracts trade persistence. Implementations can be an
// in-memory buffer, a file log, Redis, or PostgreSQL. Book state is never
// stored; trades are the engine's only durable output.
type TradeStore interface {
	// Save persists a single trade
	Save(trade *types.Trade) error

	// SaveBatch persists multiple trades (useful for database batch inserts)
	SaveBatch(trades []*types.Trade) error

	// GetRecent retrieves the N most recent trades
	GetRecent(limit int) ([]*types.Trade, error)

	// Close releases any resources held by the store
	Close() error
}
