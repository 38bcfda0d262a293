package feed

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
)

// Publisher writes trade payloads to the trades topic. Writes are
// synchronous and acknowledged by all replicas; transient broker failures
// are retried with exponential backoff until the context is cancelled, so
// an already-matched trade is never silently dropped.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish sends one payload keyed by instrument, so all trades for an
// instrument land on the same partition in execution order.
func (p *Publisher) Publish(ctx context.Context, instrument string, payload []byte) error {
	op := func() error {
		return p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(instrument),
			Value: payload,
		})
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0 // retry until cancelled
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
