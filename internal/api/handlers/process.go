package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"task-companion-service/internal/api/dto"
	"task-companion-service/internal/services"
)

// 10 MB is plenty for a voice memo.
const maxAudioBytes = 10 << 20

type ProcessHandler struct {
	Log       *slog.Logger
	Assistant *services.Assistant
}

// ProcessText runs the assistant pipeline on a raw text input.
func (h *ProcessHandler) ProcessText(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessTextRequest

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

	if strings.TrimSpace(req.Text) == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.Assistant.ProcessText(r.Context(), req.Text, req.UserID, req.SessionID)
	if err != nil {
		h.Log.ErrorContext(r.Context(), "process text failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, processResponse(result))
}

// ProcessVoice accepts a multipart upload with an "audio" file field and runs
// the transcription-first pipeline.
func (h *ProcessHandler) ProcessVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "could not read audio file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	userID := r.FormValue("user_id")
	sessionID := r.FormValue("session_id")

	result, err := h.Assistant.ProcessVoice(r.Context(), audio, contentType, userID, sessionID)
	if err != nil {
		h.Log.ErrorContext(r.Context(), "process voice failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, processResponse(result))
}

func processResponse(result *services.ProcessResult) dto.ProcessResponse {
	tasks := make([]dto.TaskResponse, 0, len(result.Tasks))
	for _, t := range result.Tasks {
		tasks = append(tasks, dto.TaskFromDomain(t))
	}

	return dto.ProcessResponse{
		Transcript: result.Transcript,
		EmotionalState: dto.EmotionalStateResponse{
			PrimaryEmotion: result.EmotionalState.PrimaryEmotion,
			EnergyLevel:    result.EmotionalState.EnergyLevel,
			StressLevel:    result.EmotionalState.StressLevel,
			Confidence:     result.EmotionalState.Confidence,
		},
		Tasks: tasks,
		Suggestion: dto.SuggestionResponse{
			Message:         result.Suggestion.Message,
			SuggestedAction: result.Suggestion.SuggestedAction,
			Reasoning:       result.Suggestion.Reasoning,
			Tone:            result.Suggestion.Tone,
		},
		Metadata: result.Metadata,
	}
}
