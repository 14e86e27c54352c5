package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/tds/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	registry *prometheus.Registry

	Evaluations  *prometheus.CounterVec
	Rejections   prometheus.Counter
	CatalogLoads *prometheus.CounterVec
	CatalogTime  *prometheus.HistogramVec
	Scores       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tds_evaluations_total",
				Help: "Total number of completed evaluations by zone",
			},
			[]string{"zone"},
		),
		Rejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tds_incomplete_submissions_total",
				Help: "Total number of answer sets rejected as incomplete",
			},
		),
		CatalogLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tds_catalog_loads_total",
				Help: "Total number of catalog loads by catalog and outcome",
			},
			[]string{"catalog", "status"},
		),
		CatalogTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tds_catalog_load_duration_seconds",
				Help:    "Duration of catalog loads",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"catalog"},
		),
		Scores: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tds_score",
				Help:    "Distribution of aggregated scores by dimension",
				Buckets: []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4},
			},
			[]string{"dimension"},
		),
	}
	m.registry.MustRegister(
		m.Evaluations,
		m.Rejections,
		m.CatalogLoads,
		m.CatalogTime,
		m.Scores,
		collectors.NewGoCollector(),
	)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCatalogLoad: func(ctx context.Context, e *domain.CatalogEvent) {
			status := "ok"
			if e.Err != nil {
				status = "error"
			}
			m.CatalogLoads.WithLabelValues(e.Catalog, status).Inc()
			m.CatalogTime.WithLabelValues(e.Catalog).Observe(e.Duration.Seconds())
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluateEvent) {
			m.Evaluations.WithLabelValues(string(e.Zone)).Inc()
			m.Scores.WithLabelValues(string(domain.DimensionStructure)).Observe(e.S)
			m.Scores.WithLabelValues(string(domain.DimensionRelational)).Observe(e.R)
		},
		OnRejected: func(ctx context.Context, e *domain.RejectedEvent) {
			m.Rejections.Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
