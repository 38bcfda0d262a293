package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"exchange/internal/types"
)

// TradeStore archives trades in PostgreSQL.
type TradeStore struct {
	pool *pgxpool.Pool
}

func NewTradeStore(cfg Config) (*TradeStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &TradeStore{pool: pool}, nil
}

const insertTrade = `
	INSERT INTO trades (instrument, buyer, seller, price, quantity, taker_order_id, executed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (s *TradeStore) Save(trade *types.Trade) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx, insertTrade,
		trade.Instrument, trade.Buyer, trade.Seller,
		trade.Price, trade.Quantity, trade.TakerOrderID, trade.Timestamp,
	)
	return err
}

func (s *TradeStore) SaveBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	for _, trade := range trades {
		batch.Queue(insertTrade,
			trade.Instrument, trade.Buyer, trade.Seller,
			trade.Price, trade.Quantity, trade.TakerOrderID, trade.Timestamp,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(trades); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at index %d: %w", i, err)
		}
	}
	return nil
}

func (s *TradeStore) GetRecent(limit int) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT instrument, buyer, seller, price, quantity, taker_order_id, executed_at
		FROM trades
		ORDER BY executed_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*types.Trade
	for rows.Next() {
		var trade types.Trade
		if err := rows.Scan(
			&trade.Instrument, &trade.Buyer, &trade.Seller,
			&trade.Price, &trade.Quantity, &trade.TakerOrderID, &trade.Timestamp,
		); err != nil {
			return nil, err
		}
		trades = append(trades, &trade)
	}
	return trades, rows.Err()
}

func (s *TradeStore) Close() error {
	s.pool.Close()
	return nil
}
