package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"exchange/internal/types"
)

// FileTradeStore implements TradeStore with append-only JSON lines. It is
// the audit trail: write-only, with reads served by a faster store layered
// in front via CompositeTradeStore.
type FileTradeStore struct {
	file    *os.File
	encoder *json.Encoder
	mutex   sync.Mutex
}

func NewFileTradeStore(filePath string) (*FileTradeStore, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	return &FileTradeStore{
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

func (s *FileTradeStore) Save(trade *types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.encoder.Encode(trade)
}

func (s *FileTradeStore) SaveBatch(trades []*types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, trade := range trades {
		if err := s.encoder.Encode(trade); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileTradeStore) GetRecent(limit int) ([]*types.Trade, error) {
	// Write-only store.
	return []*types.Trade{}, nil
}

func (s *FileTradeStore) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
