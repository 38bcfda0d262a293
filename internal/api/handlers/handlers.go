package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"exchange/internal/api/models"
	"exchange/internal/engine"
	"exchange/internal/storage"
)

// Service wires the read-only API to the engine and the trade store. The
// API never submits or mutates orders; order flow goes through the orders
// topic only.
type Service struct {
	Engine *engine.Engine
	Trades storage.TradeStore
}

func NewService(eng *engine.Engine, trades storage.TradeStore) *Service {
	return &Service{Engine: eng, Trades: trades}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, httpErr *models.HTTPError) {
	log.Warn().
		Str("error_code", string(httpErr.Error.Code)).
		Int("status", httpErr.StatusCode).
		Msg("request failed")

	writeJSON(w, httpErr.StatusCode, models.BaseResponse{
		Success:   false,
		Timestamp: time.Now().UTC(),
		Message:   httpErr.Error.Message,
		Error:     &httpErr.Error,
	})
}
