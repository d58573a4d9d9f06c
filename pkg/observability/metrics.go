package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported by the health server
type Metrics struct {
	// Dependency metrics
	DependencyUp            *prometheus.GaugeVec
	DependencyCheckDuration *prometheus.HistogramVec
	DependencyErrorsTotal   *prometheus.CounterVec

	// Aggregate health
	HealthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on registry. A nil registry
// yields unregistered collectors, which is convenient in tests.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		DependencyUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ragstack_dependency_up",
				Help: "Whether the last check of a dependency succeeded (1) or failed (0)",
			},
			[]string{"dependency"},
		),
		DependencyCheckDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ragstack_dependency_check_duration_seconds",
				Help:    "Dependency check latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"dependency"},
		),
		DependencyErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ragstack_dependency_errors_total",
				Help: "Total number of failed dependency checks",
			},
			[]string{"dependency"},
		),
		HealthChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ragstack_health_checks_total",
				Help: "Total number of aggregate health checks by resulting status",
			},
			[]string{"status"},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.DependencyUp,
			m.DependencyCheckDuration,
			m.DependencyErrorsTotal,
			m.HealthChecksTotal,
		)
	}

	return m
}

// RecordDependencyCheck records the outcome of one dependency check
func (m *Metrics) RecordDependencyCheck(dependency string, duration time.Duration, err error) {
	m.DependencyCheckDuration.WithLabelValues(dependency).Observe(duration.Seconds())
	if err != nil {
		m.DependencyUp.WithLabelValues(dependency).Set(0)
		m.DependencyErrorsTotal.WithLabelValues(dependency).Inc()
		return
	}
	m.DependencyUp.WithLabelValues(dependency).Set(1)
}

// RecordHealthCheck counts an aggregate health result
func (m *Metrics) RecordHealthCheck(status string) {
	m.HealthChecksTotal.WithLabelValues(status).Inc()
}

// Handler returns the /metrics handler for registry
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
