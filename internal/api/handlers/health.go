package handlers

import (
	"net/http"
	"time"

	"exchange/internal/api/models"
)

var startTime = time.Now()

// HealthHandler reports process health and engine counters.
func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	orders, trades := s.Engine.Stats()

	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:          "healthy",
		Timestamp:       time.Now().UTC(),
		UptimeSeconds:   int64(time.Since(startTime).Seconds()),
		OrdersProcessed: orders,
		TradesEmitted:   trades,
	})
}
