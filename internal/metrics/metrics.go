package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service's Prometheus collectors.
type Metrics struct {
	InputsProcessed   *prometheus.CounterVec
	TasksExtracted    prometheus.Counter
	RoutePlans        *prometheus.CounterVec
	AIRequestSeconds  *prometheus.HistogramVec
	AIErrors          prometheus.Counter
	GeocodeProcessed  *prometheus.CounterVec
	GeocodeAPIErrors  prometheus.Counter
	ActiveGeocoders   prometheus.Gauge
	SuggestionsServed *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		InputsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "companion_inputs_processed_total",
			Help: "Total number of processed user inputs.",
		}, []string{"source", "mode"}),
		TasksExtracted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "companion_tasks_extracted_total",
			Help: "Total number of tasks extracted from user input.",
		}),
		RoutePlans: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "companion_route_plans_total",
			Help: "Total number of route planning calls.",
		}, []string{"optimized"}),
		AIRequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "companion_ai_request_duration_seconds",
			Help:    "Duration of requests to the hosted model API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		AIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "companion_ai_errors_total",
			Help: "Total number of errors received from the hosted model API.",
		}),
		GeocodeProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "companion_geocoding_tasks_processed_total",
			Help: "Total number of processed coordinate-enrichment tasks.",
		}, []string{"status"}),
		GeocodeAPIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "companion_geocoding_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		ActiveGeocoders: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "companion_geocoding_active_workers",
			Help: "Current number of active coordinate-enrichment workers.",
		}),
		SuggestionsServed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "companion_proactive_suggestions_served_total",
			Help: "Total number of proactive suggestions served.",
		}, []string{"cache"}),
	}
}
