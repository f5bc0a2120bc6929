package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"orgdrive/internal/httputil"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness check
type HealthHandler struct {
	database Pinger // nil for the in-memory metadata store
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(database Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{database: database, logger: logger}
}

// Health reports service status
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.database.Ping(ctx); err != nil {
			h.logger.Error("health check failed", "error", err)
			httputil.RespondError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
