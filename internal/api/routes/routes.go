package routes

import (
	"net/http"

	"exchange/internal/api/handlers"
	"exchange/internal/api/middleware"
)

// SetupRoutes configures the read-only monitoring API with middleware.
func SetupRoutes(svc *handlers.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", svc.HealthHandler)

	mux.HandleFunc("/api/v1/instruments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			svc.InstrumentsHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/book/top", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			svc.TopOfBookHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/trades", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			svc.GetTradesHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Order matters: Recovery -> CORS -> Logging -> Handler
	handler := middleware.Recovery(mux)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(handler)

	return handler
}
