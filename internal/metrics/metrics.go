// Package metrics exposes Prometheus metrics for screening runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for candidates.
const (
	OutcomeScored      = "scored"
	OutcomeShortlisted = "shortlisted"
	OutcomeFailed      = "failed"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithRegistry registers metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// Manager owns the screening metrics and the registry they live on.
type Manager struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry

	candidates        *prometheus.CounterVec
	retrievalLatency  prometheus.Histogram
	sinkFailures      *prometheus.CounterVec
	placementFailures *prometheus.CounterVec
	batchRuns         *prometheus.CounterVec
	batchSize         prometheus.Histogram
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "cv_screener",
		subsystem: "screening",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	m.candidates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_total",
		Help:      "Candidates processed, by outcome.",
	}, []string{"outcome"})

	m.retrievalLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "retrieval_duration_seconds",
		Help:      "Time spent retrieving and extracting one resume.",
		Buckets:   prometheus.DefBuckets,
	})

	m.sinkFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sink_failures_total",
		Help:      "Result records that a sink failed to persist.",
	}, []string{"sink"})

	m.placementFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "placement_failures_total",
		Help:      "Shortlisted files that could not be placed.",
	}, []string{"placer"})

	m.batchRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_runs_total",
		Help:      "Batch runs, by result.",
	}, []string{"result"})

	m.batchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_size",
		Help:      "Submissions per batch run.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	m.registry.MustRegister(
		m.candidates,
		m.retrievalLatency,
		m.sinkFailures,
		m.placementFailures,
		m.batchRuns,
		m.batchSize,
	)
}

func (m *Manager) RecordCandidate(outcome string) {
	m.candidates.WithLabelValues(outcome).Inc()
}

func (m *Manager) ObserveRetrieval(d time.Duration) {
	m.retrievalLatency.Observe(d.Seconds())
}

func (m *Manager) RecordSinkFailure(sink string) {
	m.sinkFailures.WithLabelValues(sink).Inc()
}

func (m *Manager) RecordPlacementFailure(placer string) {
	m.placementFailures.WithLabelValues(placer).Inc()
}

func (m *Manager) RecordBatch(result string, size int) {
	m.batchRuns.WithLabelValues(result).Inc()
	m.batchSize.Observe(float64(size))
}

// Registry returns the registry metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
