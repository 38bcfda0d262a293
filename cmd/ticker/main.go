// ticker tails the trades topic and prints a running trade tape with the
// latest price per instrument.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rs/zerolog/log"

	"exchange/config"
	"exchange/internal/feed"
	"exchange/internal/logger"
	"exchange/internal/wire"
)

const historySize = 50

type tape struct {
	lastPrice map[string]float64
	history   []*wire.TradeMessage
}

func newTape() *tape {
	return &tape{lastPrice: make(map[string]float64)}
}

func (t *tape) record(trade *wire.TradeMessage) {
	t.lastPrice[trade.Stock] = trade.Price
	t.history = append(t.history, trade)
	if len(t.history) > historySize {
		t.history = t.history[len(t.history)-historySize:]
	}
}

func (t *tape) print(trade *wire.TradeMessage) {
	fmt.Printf("%s  %-6s %6d @ %8.2f  %s -> %s\n",
		trade.Timestamp.Format("15:04:05"),
		trade.Stock, trade.Quantity, trade.Price,
		trade.Seller, trade.Buyer)

	stocks := make([]string, 0, len(t.lastPrice))
	for stock := range t.lastPrice {
		stocks = append(stocks, stock)
	}
	sort.Strings(stocks)

	fmt.Print("last:")
	for _, stock := range stocks {
		fmt.Printf("  %s=%.2f", stock, t.lastPrice[stock])
	}
	fmt.Println()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logger.Level, true)

	consumer := feed.NewConsumer(feed.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.TradesTopic,
		GroupID: cfg.Kafka.GroupID + "-ticker",
	})
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	t := newTape()
	fmt.Println("waiting for trades...")

	err = consumer.Run(ctx, func(ctx context.Context, payload []byte) error {
		trade, err := wire.DecodeTrade(payload)
		if err != nil {
			log.Warn().Err(err).Msg("skipping unreadable trade")
			return nil
		}
		t.record(trade)
		t.print(trade)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("ticker stopped with error")
		os.Exit(1)
	}
}
