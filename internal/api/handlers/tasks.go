package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"task-companion-service/internal/api/dto"
	"task-companion-service/internal/domain"
	"task-companion-service/internal/ports"
)

// TaskHandler exposes task CRUD endpoints over the repository port.
type TaskHandler struct {
	Log  *slog.Logger
	Repo ports.TaskRepository
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := ports.TaskFilter{UserID: q.Get("user_id")}
	if s := q.Get("status"); s != "" {
		if !domain.ValidStatus(s) {
			writeError(h.Log, w, r, http.StatusBadRequest, "unknown status "+strconv.Quote(s))
			return
		}
		filter.Status = domain.TaskStatus(s)
	}
	if p := q.Get("priority"); p != "" {
		filter.Priority = domain.ParsePriority(p)
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			writeError(h.Log, w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}

	tasks, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		h.Log.ErrorContext(r.Context(), "list tasks failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTasksResponse{Tasks: make([]dto.TaskResponse, 0, len(tasks))}
	for _, t := range tasks {
		res.Tasks = append(res.Tasks, dto.TaskFromDomain(t))
	}
	res.Count = len(res.Tasks)

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

// Create adds a task directly, bypassing the assistant pipeline. Useful for
// manual entry and for clients that already know what they want.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest

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

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "title is required")
		return
	}

	category := req.CategoryType
	if category == "" {
		category = "other"
	}

	task := &domain.Task{
		ID:                       domain.NewID("task"),
		Title:                    title,
		Description:              req.Description,
		OriginalText:             title,
		Priority:                 domain.ParsePriority(req.Priority),
		CategoryType:             category,
		Location:                 req.Location,
		DueDate:                  req.DueDate,
		ReminderTime:             req.ReminderTime,
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		Status:                   domain.StatusPending,
		UserID:                   req.UserID,
	}

	if err := h.Repo.Create(r.Context(), task); err != nil {
		h.Log.ErrorContext(r.Context(), "create task failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusCreated, dto.TaskFromDomain(task))
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.Repo.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, ports.ErrNotFound) {
		writeError(h.Log, w, r, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.Log.ErrorContext(r.Context(), "get task failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, dto.TaskFromDomain(task))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTaskRequest

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

	update := ports.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		ReminderTime: req.ReminderTime,
	}
	if req.Priority != nil {
		p := domain.ParsePriority(*req.Priority)
		update.Priority = &p
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			writeError(h.Log, w, r, http.StatusBadRequest, "unknown status "+strconv.Quote(*req.Status))
			return
		}
		s := domain.TaskStatus(*req.Status)
		update.Status = &s
	}

	task, err := h.Repo.Update(r.Context(), r.PathValue("id"), update)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(h.Log, w, r, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.Log.ErrorContext(r.Context(), "update task failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, dto.TaskFromDomain(task))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Repo.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, ports.ErrNotFound) {
		writeError(h.Log, w, r, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.Log.ErrorContext(r.Context(), "delete task failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	task, err := h.Repo.MarkComplete(r.Context(), r.PathValue("id"))
	if errors.Is(err, ports.ErrNotFound) {
		writeError(h.Log, w, r, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.Log.ErrorContext(r.Context(), "complete task failed", "error", err)
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusOK, dto.TaskFromDomain(task))
}
