package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"task-companion-service/internal/domain"
	"task-companion-service/internal/metrics"
	"task-companion-service/internal/ports"
)

const geocodeBatchLimit = 100

// EnrichmentService resolves coordinates for tasks that carry a free-text
// location. It runs as a background poller so user-facing requests never wait
// on the geocoding provider; the route planner falls back to deterministic
// pseudo-coordinates until real ones arrive.
type EnrichmentService struct {
	log          *slog.Logger
	tasks        ports.TaskRepository
	geocoder     ports.Geocoder
	metrics      *metrics.Metrics
	numWorkers   int
	pollInterval time.Duration
}

func NewEnrichmentService(
	log *slog.Logger,
	tasks ports.TaskRepository,
	geocoder ports.Geocoder,
	m *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
) *EnrichmentService {
	return &EnrichmentService{
		log:          log,
		tasks:        tasks,
		geocoder:     geocoder,
		metrics:      m,
		numWorkers:   numWorkers,
		pollInterval: pollInterval,
	}
}

// Run polls for tasks to enrich until the context is cancelled.
func (es *EnrichmentService) Run(ctx context.Context) {
	ticker := time.NewTicker(es.pollInterval)
	defer ticker.Stop()

	es.log.InfoContext(ctx, "coordinate enrichment started", "workers", es.numWorkers, "interval", es.pollInterval)

	for {
		select {
		case <-ctx.Done():
			es.log.InfoContext(ctx, "coordinate enrichment stopped")
			return
		case <-ticker.C:
			es.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch fetches one batch of location-bearing tasks and geocodes them
// with a worker pool. Exposed for tests and for one-shot runs.
func (es *EnrichmentService) ProcessBatch(ctx context.Context) {
	tasks, err := es.tasks.FetchForGeocoding(ctx, geocodeBatchLimit)
	if err != nil {
		es.log.ErrorContext(ctx, "failed to fetch tasks for geocoding", "error", err)
		return
	}
	if len(tasks) == 0 {
		return
	}

	es.log.InfoContext(ctx, "geocoding batch", "jobs", len(tasks), "workers", es.numWorkers)

	jobs := make(chan *domain.Task, len(tasks))
	var wg sync.WaitGroup

	for i := 1; i <= es.numWorkers; i++ {
		wg.Add(1)
		go es.worker(ctx, i, &wg, jobs)
	}

	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)

	wg.Wait()
}

func (es *EnrichmentService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan *domain.Task) {
	defer wg.Done()
	for task := range jobs {
		es.metrics.ActiveGeocoders.Inc()
		es.log.DebugContext(ctx, "geocoding task", "worker", idx, "task", task.ID, "location", task.Location)

		coords, err := es.geocoder.Geocode(ctx, task.Location)
		if err != nil {
			es.log.ErrorContext(ctx, "geocoding failed", "worker", idx, "task", task.ID, "error", err)
			es.metrics.GeocodeProcessed.WithLabelValues("failure").Inc()
			es.metrics.GeocodeAPIErrors.Inc()

			if err := es.tasks.IncrementGeocodeFailure(ctx, task.ID, err.Error()); err != nil {
				es.log.ErrorContext(ctx, "could not record geocode failure", "worker", idx, "task", task.ID, "error", err)
			}
			es.metrics.ActiveGeocoders.Dec()
			continue
		}

		es.metrics.GeocodeProcessed.WithLabelValues("success").Inc()

		if err := es.tasks.UpdateCoordinates(ctx, task.ID, coords); err != nil {
			es.log.ErrorContext(ctx, "failed to store coordinates", "worker", idx, "task", task.ID, "error", err)
		}
		es.metrics.ActiveGeocoders.Dec()
	}
}
