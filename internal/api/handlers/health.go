package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Log *slog.Logger
	DB  Pinger
}

// Health reports liveness plus database connectivity.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok", "database": "ok"}
	status := http.StatusOK

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			res["status"] = "degraded"
			res["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(h.Log, w, r, status, res)
}
