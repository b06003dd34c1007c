package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"task-companion-service/internal/api/dto"
	"task-companion-service/internal/domain"
	"task-companion-service/internal/metrics"
	"task-companion-service/internal/ports"
	"task-companion-service/internal/services"
)

type PlanHandler struct {
	Log     *slog.Logger
	Repo    ports.TaskRepository
	Metrics *metrics.Metrics
}

// Plan orders the selected tasks into an errand route. With no explicit task
// ids, the user's open tasks are considered; the planner itself filters out
// tasks without locations.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRouteRequest

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

	var tasks []*domain.Task
	if len(req.TaskIDs) > 0 {
		for _, id := range req.TaskIDs {
			task, err := h.Repo.GetByID(r.Context(), id)
			if errors.Is(err, ports.ErrNotFound) {
				writeError(h.Log, w, r, http.StatusNotFound, "task not found: "+strconv.Quote(id))
				return
			}
			if err != nil {
				h.Log.ErrorContext(r.Context(), "load task for planning failed", "task", id, "error", err)
				writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
				return
			}
			tasks = append(tasks, task)
		}
	} else {
		open, err := h.Repo.List(r.Context(), ports.TaskFilter{
			UserID: req.UserID,
			Status: domain.StatusPending,
		})
		if err != nil {
			h.Log.ErrorContext(r.Context(), "list tasks for planning failed", "error", err)
			writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		tasks = open
	}

	views := make([]domain.LocationTask, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, t.RoutingView())
	}

	var start *domain.Coordinates
	if req.StartLocation != nil {
		start = &domain.Coordinates{Lat: req.StartLocation.Lat, Lng: req.StartLocation.Lng}
	}

	result := services.PlanRoute(views, start)
	h.Metrics.RoutePlans.WithLabelValues(strconv.FormatBool(result.Optimized)).Inc()

	writeJSON(h.Log, w, r, http.StatusOK, dto.PlanRouteFromDomain(result, services.FormatRouteForDisplay(result)))
}
