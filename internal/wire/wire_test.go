package wire_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exchange/internal/types"
	"exchange/internal/wire"
)

func TestDecodeOrder(t *testing.T) {
	d := wire.NewDecoder()

	payload := []byte(`{
		"username": "Alice",
		"stock": "xyz",
		"side": "buy",
		"quantity": 100,
		"price": 49.5,
		"timestamp": "2026-08-30T10:15:00Z"
	}`)

	order, err := d.DecodeOrder(payload)
	require.NoError(t, err)

	assert.Equal(t, "Alice", order.Trader)
	assert.Equal(t, "XYZ", order.Instrument, "stock must be case-normalized upper")
	assert.Equal(t, types.Buy, order.Side)
	assert.Equal(t, int64(100), order.Quantity)
	assert.Equal(t, 49.5, order.Price)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, uint64(1), order.Sequence)
}

func TestDecodeOrderSequenceIsMonotonic(t *testing.T) {
	d := wire.NewDecoder()
	payload := []byte(`{"username":"A","stock":"XYZ","side":"SELL","quantity":1,"price":1,"timestamp":"2026-08-30T10:15:00Z"}`)

	first, err := d.DecodeOrder(payload)
	require.NoError(t, err)
	second, err := d.DecodeOrder(payload)
	require.NoError(t, err)

	assert.Greater(t, second.Sequence, first.Sequence)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDecodeOrderAcceptsPythonTimestamps(t *testing.T) {
	d := wire.NewDecoder()
	// datetime.isoformat() has microseconds and no timezone.
	payload := []byte(`{"username":"A","stock":"XYZ","side":"BUY","quantity":1,"price":1,"timestamp":"2026-08-30T10:15:00.123456"}`)

	order, err := d.DecodeOrder(payload)
	require.NoError(t, err)
	assert.Equal(t, 2026, order.Timestamp.Year())
}

func TestDecodeOrderMalformed(t *testing.T) {
	d := wire.NewDecoder()

	tests := []struct {
		name    string
		payload string
	}{
		{"NotJSON", `this is not json`},
		{"MissingUsername", `{"stock":"XYZ","side":"BUY","quantity":1,"price":1,"timestamp":"2026-08-30T10:15:00Z"}`},
		{"MissingStock", `{"username":"A","side":"BUY","quantity":1,"price":1,"timestamp":"2026-08-30T10:15:00Z"}`},
		{"MissingSide", `{"username":"A","stock":"XYZ","quantity":1,"price":1,"timestamp":"2026-08-30T10:15:00Z"}`},
		{"MissingTimestamp", `{"username":"A","stock":"XYZ","side":"BUY","quantity":1,"price":1}`},
		{"BadTimestamp", `{"username":"A","stock":"XYZ","side":"BUY","quantity":1,"price":1,"timestamp":"yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.DecodeOrder([]byte(tt.payload))
			assert.ErrorIs(t, err, types.ErrMalformedMessage)
		})
	}
}

func TestDecodeOrderInvalid(t *testing.T) {
	d := wire.NewDecoder()

	tests := []struct {
		name    string
		payload string
	}{
		{"UnknownSide", `{"username":"A","stock":"XYZ","side":"HOLD","quantity":1,"price":1,"timestamp":"2026-08-30T10:15:00Z"}`},
		{"ZeroQuantity", `{"username":"A","stock":"XYZ","side":"BUY","quantity":0,"price":1,"timestamp":"2026-08-30T10:15:00Z"}`},
		{"NegativeQuantity", `{"username":"A","stock":"XYZ","side":"BUY","quantity":-5,"price":1,"timestamp":"2026-08-30T10:15:00Z"}`},
		{"ZeroPrice", `{"username":"A","stock":"XYZ","side":"SELL","quantity":1,"price":0,"timestamp":"2026-08-30T10:15:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.DecodeOrder([]byte(tt.payload))
			assert.ErrorIs(t, err, types.ErrInvalidOrder)
		})
	}
}

func TestEncodeTrade(t *testing.T) {
	executed := time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC)
	trade := &types.Trade{
		Instrument: "XYZ",
		Buyer:      "B",
		Seller:     "A",
		Price:      50.0,
		Quantity:   60,
		Timestamp:  executed,
	}

	payload, err := wire.EncodeTrade(trade)
	require.NoError(t, err)

	decoded, err := wire.DecodeTrade(payload)
	require.NoError(t, err)

	assert.Equal(t, "XYZ", decoded.Stock)
	assert.Equal(t, "B", decoded.Buyer)
	assert.Equal(t, "A", decoded.Seller)
	assert.Equal(t, 50.0, decoded.Price)
	assert.Equal(t, int64(60), decoded.Quantity)
	assert.True(t, decoded.Timestamp.Equal(executed))
}

func TestDecodeTradeMalformed(t *testing.T) {
	_, err := wire.DecodeTrade([]byte(`nope`))
	assert.ErrorIs(t, err, types.ErrMalformedMessage)
}
