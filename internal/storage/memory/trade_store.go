package memory

import (
	"sync"

	"exchange/internal/types"
)

// TradeStore keeps the N most recent trades in a circular buffer.
// Thread-safe: the feed loop writes while the monitoring API reads.
type TradeStore struct {
	trades  []*types.Trade
	maxSize int
	mutex   sync.RWMutex
}

func NewTradeStore(maxSize int) *TradeStore {
	return &TradeStore{
		trades:  make([]*types.Trade, 0, maxSize),
		maxSize: maxSize,
	}
}

func (s *TradeStore) Save(trade *types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trade)
	if len(s.trades) > s.maxSize {
		s.trades = s.trades[len(s.trades)-s.maxSize:]
	}
	return nil
}

func (s *TradeStore) SaveBatch(trades []*types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trades...)
	if len(s.trades) > s.maxSize {
		s.trades = s.trades[len(s.trades)-s.maxSize:]
	}
	return nil
}

func (s *TradeStore) GetRecent(limit int) ([]*types.Trade, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 || limit > len(s.trades) {
		limit = len(s.trades)
	}

	start := len(s.trades) - limit
	result := make([]*types.Trade, limit)
	copy(result, s.trades[start:])
	return result, nil
}

func (s *TradeStore) Close() error {
	return nil
}
