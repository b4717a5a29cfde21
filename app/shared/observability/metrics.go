package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-operation counters and durations for all modules.
type Metrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewMetrics registers the operation metrics on the given registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "psf_operation_attempts_total",
			Help: "Number of service operation attempts.",
		}, []string{"module", "operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "psf_operation_successes_total",
			Help: "Number of service operations that completed successfully.",
		}, []string{"module", "operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "psf_operation_failures_total",
			Help: "Number of service operations that failed.",
		}, []string{"module", "operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "psf_operation_duration_seconds",
			Help:    "Duration of service operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"module", "operation"}),
	}

	registry.MustRegister(m.attempts, m.successes, m.failures, m.durations)
	return m
}

func (m *Metrics) RecordOperationAttempt(_ context.Context, module, operation string) {
	m.attempts.WithLabelValues(module, operation).Inc()
}

func (m *Metrics) RecordOperationSuccess(_ context.Context, module, operation string) {
	m.successes.WithLabelValues(module, operation).Inc()
}

func (m *Metrics) RecordOperationFailure(_ context.Context, module, operation string) {
	m.failures.WithLabelValues(module, operation).Inc()
}

func (m *Metrics) RecordOperationDuration(_ context.Context, module, operation string, d time.Duration) {
	m.durations.WithLabelValues(module, operation).Observe(d.Seconds())
}
