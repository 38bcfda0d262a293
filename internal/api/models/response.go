package models

import "time"

// BaseResponse is the base structure for all API responses
type BaseResponse struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Error     *APIError `json:"error,omitempty"`
}

// TradeDTO represents a trade in API responses
type TradeDTO struct {
	Instrument string    `json:"instrument"`
	Buyer      string    `json:"buyer"`
	Seller     string    `json:"seller"`
	Price      float64   `json:"price"`
	Quantity   int64     `json:"quantity"`
	Timestamp  time.Time `json:"timestamp"`
}

// BestQuote represents the aggregated best bid or ask
type BestQuote struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Orders   int     `json:"orders"`
}

// TopOfBookResponse represents the best bid and ask for one instrument
type TopOfBookResponse struct {
	BaseResponse
	Instrument string     `json:"instrument"`
	BestBid    *BestQuote `json:"best_bid,omitempty"`
	BestAsk    *BestQuote `json:"best_ask,omitempty"`
	Spread     float64    `json:"spread,omitempty"`
	MidPrice   float64    `json:"mid_price,omitempty"`
	Halted     bool       `json:"halted,omitempty"`
}

// InstrumentsResponse lists the instruments with a live book
type InstrumentsResponse struct {
	BaseResponse
	Instruments []string `json:"instruments"`
}

// GetTradesResponse represents the response for getting trades
type GetTradesResponse struct {
	BaseResponse
	Trades []TradeDTO `json:"trades"`
	Count  int        `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
	UptimeSeconds   int64     `json:"uptime_seconds"`
	OrdersProcessed uint64    `json:"orders_processed"`
	TradesEmitted   uint64    `json:"trades_emitted"`
}
