package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeJSON(log *slog.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorContext(r.Context(), "encode response failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(log, w, r, status, map[string]string{"error": msg})
}
