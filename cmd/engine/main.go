package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"exchange/config"
	"exchange/internal/api/handlers"
	"exchange/internal/api/routes"
	"exchange/internal/engine"
	"exchange/internal/feed"
	"exchange/internal/logger"
	"exchange/internal/storage"
	"exchange/internal/storage/memory"
	"exchange/internal/storage/postgres"
	"exchange/internal/storage/redis"
	"exchange/internal/types"
	"exchange/internal/wire"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logger.Level, cfg.Logger.Pretty)
	log.Info().Msg("starting exchange engine")

	tradeStore := buildTradeStore(cfg)
	defer func() {
		if err := tradeStore.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close trade store")
		}
	}()

	eng := engine.New()
	decoder := wire.NewDecoder()

	consumer := feed.NewConsumer(feed.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrdersTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer consumer.Close()

	publisher := feed.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TradesTopic)
	defer publisher.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      routes.SetupRoutes(handlers.NewService(eng, tradeStore)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t, ctx := tomb.WithContext(ctx)

	// Order consumption: one message at a time, fully processed and
	// published before the next is fetched.
	t.Go(func() error {
		return consumer.Run(ctx, func(ctx context.Context, payload []byte) error {
			return processOrder(ctx, decoder, eng, publisher, tradeStore, payload)
		})
	})

	// Read-only monitoring API.
	t.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Msg("monitor server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Shut the HTTP server down when the tomb dies.
	t.Go(func() error {
		<-t.Dying()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		t.Kill(nil)
	case <-t.Dying():
	}

	if err := t.Wait(); err != nil {
		log.Error().Err(err).Msg("engine stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("engine exited cleanly")
}

// processOrder handles one inbound payload to completion: decode, match,
// publish every resulting trade in execution order, persist. Rejected
// input is logged and dropped; only unrecoverable failures propagate and
// stop the consumer.
func processOrder(
	ctx context.Context,
	decoder *wire.Decoder,
	eng *engine.Engine,
	publisher *feed.Publisher,
	tradeStore storage.TradeStore,
	payload []byte,
) error {
	order, err := decoder.DecodeOrder(payload)
	if err != nil {
		// Bad input never reaches a book; drop it and keep consuming.
		log.Warn().Err(err).Msg("order rejected")
		return nil
	}

	log.Info().
		Str("trader", order.Trader).
		Str("instrument", order.Instrument).
		Str("side", order.Side.String()).
		Int64("quantity", order.Quantity).
		Float64("price", order.Price).
		Msg("order received")

	trades, err := eng.Submit(order)
	if err != nil {
		var violation *types.InvariantViolationError
		switch {
		case errors.As(err, &violation):
			// A bug in the matching path. The instrument is halted;
			// trades executed before the failure are still published.
			log.Error().Err(err).
				Str("instrument", violation.Instrument).
				Msg("invariant violation, instrument halted")
		case errors.Is(err, engine.ErrInstrumentHalted),
			errors.Is(err, types.ErrInvalidOrder):
			log.Warn().Err(err).Msg("order rejected")
			return nil
		default:
			return err
		}
	}

	for _, trade := range trades {
		data, err := wire.EncodeTrade(trade)
		if err != nil {
			return fmt.Errorf("encode trade: %w", err)
		}
		if err := publisher.Publish(ctx, trade.Instrument, data); err != nil {
			return fmt.Errorf("publish trade: %w", err)
		}
		log.Info().
			Str("instrument", trade.Instrument).
			Str("buyer", trade.Buyer).
			Str("seller", trade.Seller).
			Float64("price", trade.Price).
			Int64("quantity", trade.Quantity).
			Msg("trade executed")
	}

	if len(trades) > 0 {
		if err := tradeStore.SaveBatch(trades); err != nil {
			// The trade is already on the wire; a failed store write
			// costs history, not correctness.
			log.Error().Err(err).Msg("failed to persist trades")
		}
	}
	return nil
}

// buildTradeStore layers the configured trade stores behind a composite:
// memory first for fast reads, then Redis, then Postgres, then the
// append-only file log.
func buildTradeStore(cfg *config.Config) storage.TradeStore {
	var stores []storage.TradeStore

	if cfg.Memory.Enabled {
		stores = append(stores, memory.NewTradeStore(cfg.Memory.MaxTrades))
		log.Info().Int("max_trades", cfg.Memory.MaxTrades).Msg("in-memory trade history enabled")
	}

	if cfg.Redis.Enabled {
		store, err := redis.NewTradeStore(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			TLSEnabled:   cfg.Redis.TLSEnabled,
			MaxTrades:    cfg.Redis.MaxTrades,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without cache")
		} else {
			stores = append(stores, store)
			log.Info().Str("host", cfg.Redis.Host).Msg("redis trade cache connected")
		}
	}

	if cfg.Postgres.Enabled {
		store, err := postgres.NewTradeStore(postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			Database:        cfg.Postgres.Name,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			MaxConns:        cfg.Postgres.MaxConns,
			MinConns:        cfg.Postgres.MinConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			SSLMode:         cfg.Postgres.SSLMode,
		})
		if err != nil {
			log.Warn().Err(err).Msg("postgres unavailable, continuing without archive")
		} else {
			stores = append(stores, store)
			log.Info().Str("host", cfg.Postgres.Host).Msg("postgres trade archive connected")
		}
	}

	if store, err := storage.NewFileTradeStore(cfg.Engine.TradeLogPath); err == nil {
		stores = append(stores, store)
		log.Info().Str("path", cfg.Engine.TradeLogPath).Msg("trade file log enabled")
	} else {
		log.Warn().Err(err).Msg("trade file log unavailable")
	}

	if len(stores) == 1 {
		return stores[0]
	}
	return storage.NewCompositeTradeStore(stores...)
}
