package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/exercise-tracker/apiserver/internal/services"
)

const healthTimeout = 2 * time.Second

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
}

// Healthz reports whether the user store answers a count query.
func Healthz(users *services.UserService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		total, err := users.Count(ctx)
		if err != nil {
			log.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Users: total})
	}
}
