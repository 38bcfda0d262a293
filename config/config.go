package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the exchange daemon.
type Config struct {
	Server   Server
	Kafka    Kafka
	Engine   Engine
	Logger   Logger
	Memory   Memory
	Redis    Redis
	Postgres Postgres
}

// Server holds the monitoring HTTP server configuration.
type Server struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Kafka holds the transport configuration for the orders/trades topics.
type Kafka struct {
	Brokers     []string
	OrdersTopic string
	TradesTopic string
	GroupID     string
}

// Engine holds matching engine configuration.
type Engine struct {
	TradeLogPath string
}

// Logger holds logger configuration.
type Logger struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Pretty bool
}

// Memory holds in-memory trade history configuration.
type Memory struct {
	Enabled   bool
	MaxTrades int
}

// Redis holds the recent-trades cache configuration.
type Redis struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	TLSEnabled   bool
	MaxTrades    int
}

// Postgres holds the trade archive configuration.
type Postgres struct {
	Enabled         bool
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env file is fine; env vars may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: Server{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Kafka: Kafka{
			Brokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			OrdersTopic: getEnv("KAFKA_ORDERS_TOPIC", "orders"),
			TradesTopic: getEnv("KAFKA_TRADES_TOPIC", "trades"),
			GroupID:     getEnv("KAFKA_GROUP_ID", "exchange-engine"),
		},
		Engine: Engine{
			TradeLogPath: getEnv("TRADE_LOG_PATH", "trades.log"),
		},
		Logger: Logger{
			Level:  getEnv("LOG_LEVEL", "INFO"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Memory: Memory{
			Enabled:   getEnvBool("MEMORY_ENABLED", true),
			MaxTrades: getEnvInt("MEMORY_MAX_TRADES", 1000),
		},
		Redis: Redis{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			MaxRetries:   getEnvInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			TLSEnabled:   getEnvBool("REDIS_TLS_ENABLED", false),
			MaxTrades:    getEnvInt("REDIS_MAX_TRADES", 10000),
		},
		Postgres: Postgres{
			Enabled:         getEnvBool("DATABASE_ENABLED", false),
			Host:            getEnv("DATABASE_HOST", "localhost"),
			Port:            getEnvInt("DATABASE_PORT", 5432),
			Name:            getEnv("DATABASE_NAME", "exchange"),
			User:            getEnv("DATABASE_USER", "postgres"),
			Password:        getEnv("DATABASE_PASSWORD", ""),
			MaxConns:        getEnvInt("DATABASE_MAX_CONNECTIONS", 20),
			MinConns:        getEnvInt("DATABASE_MIN_CONNECTIONS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			SSLMode:         getEnv("DATABASE_SSL_MODE", "disable"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if len(c.Kafka.Brokers) == 0 || c.Kafka.Brokers[0] == "" {
		return fmt.Errorf("KAFKA_BROKERS cannot be empty")
	}
	if c.Kafka.OrdersTopic == "" || c.Kafka.TradesTopic == "" {
		return fmt.Errorf("kafka topics cannot be empty")
	}
	if c.Engine.TradeLogPath == "" {
		return fmt.Errorf("TRADE_LOG_PATH cannot be empty")
	}
	if c.Memory.Enabled && c.Memory.MaxTrades < 1 {
		return fmt.Errorf("MEMORY_MAX_TRADES must be > 0")
	}

	validLevels := map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}
	if !validLevels[strings.ToUpper(c.Logger.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: DEBUG, INFO, WARN, ERROR")
	}
	return nil
}

// Helper functions to read environment variables with defaults

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
