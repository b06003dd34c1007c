package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"task-companion-service/internal/api/dto"
	"task-companion-service/internal/ports"
	"task-companion-service/internal/services"
)

type SuggestionHandler struct {
	Log       *slog.Logger
	Proactive *services.ProactiveService
}

// List returns active proactive suggestions. A fresh set is generated on
// every call unless generate=false.
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	generate := q.Get("generate") != "false"

	suggestions, err := h.Proactive.Suggestions(r.Context(), q.Get("user_id"), generate)
	if err != nil {
		h.Log.ErrorContext(r.Context(), "list suggestions failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListSuggestionsResponse{
		Suggestions: make([]dto.ProactiveSuggestionResponse, 0, len(suggestions)),
	}
	for _, s := range suggestions {
		res.Suggestions = append(res.Suggestions, dto.SuggestionFromDomain(s))
	}
	res.Count = len(res.Suggestions)

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

// Action records the user's reaction (shown, dismissed, acted_on) to a
// suggestion.
func (h *SuggestionHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req dto.SuggestionActionRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(h.Log, w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	action := strings.TrimSpace(req.Action)
	if action == "" {
		action = "shown"
	}

	err := h.Proactive.MarkShown(r.Context(), r.PathValue("id"), action, req.UserID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(h.Log, w, r, http.StatusNotFound, "suggestion not found")
		return
	}
	if errors.Is(err, services.ErrInvalidAction) {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid action")
		return
	}
	if err != nil {
		h.Log.ErrorContext(r.Context(), "record suggestion action failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, map[string]string{"status": "recorded"})
}
