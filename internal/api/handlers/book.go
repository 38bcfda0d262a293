package handlers

import (
	"net/http"
	"strings"
	"time"

	"exchange/internal/api/models"
	"exchange/internal/book"
)

func toQuote(level *book.Level) *models.BestQuote {
	if level == nil {
		return nil
	}
	return &models.BestQuote{
		Price:    level.Price,
		Quantity: level.Quantity,
		Orders:   level.Orders,
	}
}

// TopOfBookHandler returns the best bid/ask snapshot for one instrument.
func (s *Service) TopOfBookHandler(w http.ResponseWriter, r *http.Request) {
	instrument := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("instrument")))
	if instrument == "" {
		writeError(w, models.ErrBadRequest("instrument query parameter is required",
			map[string]interface{}{"field": "instrument"}))
		return
	}

	top, ok := s.Engine.Snapshot(instrument)
	if !ok {
		writeError(w, models.ErrInstrumentNotFound(instrument))
		return
	}

	response := models.TopOfBookResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Instrument: instrument,
		BestBid:    toQuote(top.BestBid),
		BestAsk:    toQuote(top.BestAsk),
		Halted:     top.Halted,
	}
	if top.BestBid != nil && top.BestAsk != nil {
		response.Spread = top.BestAsk.Price - top.BestBid.Price
		response.MidPrice = (top.BestBid.Price + top.BestAsk.Price) / 2.0
	}

	writeJSON(w, http.StatusOK, response)
}

// InstrumentsHandler lists the instruments with a live book.
func (s *Service) InstrumentsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.InstrumentsResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Instruments: s.Engine.Instruments(),
	})
}
