package handlers

import (
	"net/http"
	"strconv"
	"time"

	"exchange/internal/api/models"
	"exchange/internal/types"
)

const (
	defaultTradeLimit = 100
	maxTradeLimit     = 1000
)

func convertTradesToDTO(trades []*types.Trade) []models.TradeDTO {
	dtos := make([]models.TradeDTO, len(trades))
	for i, trade := range trades {
		dtos[i] = models.TradeDTO{
			Instrument: trade.Instrument,
			Buyer:      trade.Buyer,
			Seller:     trade.Seller,
			Price:      trade.Price,
			Quantity:   trade.Quantity,
			Timestamp:  trade.Timestamp,
		}
	}
	return dtos
}

// GetTradesHandler returns the most recent trades from the trade store.
func (s *Service) GetTradesHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultTradeLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > maxTradeLimit {
				limit = maxTradeLimit
			}
		}
	}

	trades, err := s.Trades.GetRecent(limit)
	if err != nil {
		writeError(w, models.ErrInternal("failed to read trades"))
		return
	}

	dtos := convertTradesToDTO(trades)
	writeJSON(w, http.StatusOK, models.GetTradesResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Trades: dtos,
		Count:  len(dtos),
	})
}
