// Package feed owns the Kafka transport: the read loop over the orders
// topic and the publisher for the trades topic.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Handler processes one inbound payload to completion. Returning an error
// stops the consumer; recoverable problems (malformed payloads, rejected
// orders) must be handled inside the handler so the loop keeps going.
type Handler func(ctx context.Context, payload []byte) error

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consumer pulls one message at a time from the orders topic, hands it to
// the handler, and only then commits the offset. Processing is strictly
// serial; there is never more than one in-flight order.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(cfg ConsumerConfig) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.Topic,
			GroupID:  cfg.GroupID,
			MinBytes: 1,
			MaxBytes: 1 << 20,
		}),
	}
}

// Run consumes until the context is cancelled or the handler fails.
// Committing after the handler returns gives at-least-once processing: a
// crash mid-order redelivers it instead of losing it.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			log.Error().Err(err).Msg("fetch failed, retrying")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		if err := handle(ctx, msg.Value); err != nil {
			return err
		}

		if err := c.commit(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// The order is already applied and its trades published;
			// a lost commit only means a redelivery later.
			log.Error().Err(err).
				Int64("offset", msg.Offset).
				Msg("commit failed")
		}
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) error {
	op := func() error {
		return c.reader.CommitMessages(ctx, msg)
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
