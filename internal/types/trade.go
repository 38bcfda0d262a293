package types

import "time"

// Trade records one execution between an aggressor order and a resting
// order. Trades are created once by the matching engine and never mutated.
type Trade struct {
	Instrument   string    `json:"instrument"`
	Buyer        string    `json:"buyer"`
	Seller       string    `json:"seller"`
	Price        float64   `json:"price"`
	Quantity     int64     `json:"quantity"`
	Timestamp    time.Time `json:"timestamp"`
	TakerOrderID string    `json:"taker_order_id,omitempty"`
}
