package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"task-companion-service/internal/api/handlers"
	"task-companion-service/internal/metrics"
	"task-companion-service/internal/ports"
	"task-companion-service/internal/services"
)

// Deps bundles everything the HTTP surface needs. Handlers depend on ports
// and services only; concrete adapters are wired in the composition root.
type Deps struct {
	Log       *slog.Logger
	DB        handlers.Pinger
	Tasks     ports.TaskRepository
	Assistant *services.Assistant
	Proactive *services.ProactiveService
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{Log: deps.Log, DB: deps.DB}
	process := &handlers.ProcessHandler{Log: deps.Log, Assistant: deps.Assistant}
	tasks := &handlers.TaskHandler{Log: deps.Log, Repo: deps.Tasks}
	plans := &handlers.PlanHandler{Log: deps.Log, Repo: deps.Tasks, Metrics: deps.Metrics}
	suggestions := &handlers.SuggestionHandler{Log: deps.Log, Proactive: deps.Proactive}

	mux.HandleFunc("GET /health", health.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/process-text", process.ProcessText)
	mux.HandleFunc("POST /api/process-voice", process.ProcessVoice)

	mux.HandleFunc("GET /api/tasks", tasks.List)
	mux.HandleFunc("POST /api/tasks", tasks.Create)
	mux.HandleFunc("GET /api/tasks/{id}", tasks.Get)
	mux.HandleFunc("PATCH /api/tasks/{id}", tasks.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", tasks.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/complete", tasks.Complete)

	mux.HandleFunc("POST /api/plan-route", plans.Plan)

	mux.HandleFunc("GET /api/suggestions", suggestions.List)
	mux.HandleFunc("POST /api/suggestions/{id}/action", suggestions.Action)

	return loggingMiddleware(deps.Log, mux)
}
