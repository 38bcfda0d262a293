// sendorder publishes a single limit order to the orders topic.
//
// Usage:
//
//	sendorder -user Alice -stock XYZ -side BUY -qty 100 -price 49.0
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"exchange/config"
	"exchange/internal/feed"
	"exchange/internal/wire"
)

func main() {
	user := flag.String("user", "", "submitting trader")
	stock := flag.String("stock", "", "instrument to trade")
	side := flag.String("side", "", "BUY or SELL")
	qty := flag.Int64("qty", 0, "quantity (shares)")
	price := flag.Float64("price", 0, "limit price")
	flag.Parse()

	if *user == "" || *stock == "" || *side == "" || *qty <= 0 || *price <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	msg := wire.OrderMessage{
		Username:  *user,
		Stock:     strings.ToUpper(*stock),
		Side:      strings.ToUpper(*side),
		Quantity:  *qty,
		Price:     *price,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode order: %v\n", err)
		os.Exit(1)
	}

	publisher := feed.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := publisher.Publish(ctx, msg.Stock, payload); err != nil {
		fmt.Fprintf(os.Stderr, "failed to send order: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("order sent: %s %s %d %s @ %.2f\n", *user, msg.Side, *qty, msg.Stock, *price)
}
