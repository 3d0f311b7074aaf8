package handler

import (
	"context"
	"net/http"
	"time"

	"translatedtext/internal/logger"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health returns 200 while the store answers pings and 503 otherwise
func Health(store Pinger, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			writeJSON(w, HealthResponse{Status: "unavailable", Error: err.Error()}, http.StatusServiceUnavailable, log)
			return
		}
		writeJSON(w, HealthResponse{Status: "ok"}, http.StatusOK, log)
	}
}
