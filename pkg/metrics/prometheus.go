// Package metrics provides Prometheus metrics for the matching engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the engine's Prometheus metrics.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Run lifecycle
	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
	matchesPersisted prometheus.Counter
	lastPoolSize     prometheus.Gauge

	// Scoring quality
	scoringErrors     prometheus.Counter
	candidatesSkipped prometheus.Counter
	vectorizeDuration prometheus.Histogram

	// Lock contention
	lockWaitDuration prometheus.Histogram
}

// Global metrics manager instance on a custom registry, so the embedding
// application's default registry stays untouched.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchengine",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Matching runs by scoring method and outcome",
		},
		[]string{"method", "outcome"},
	)

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full matching run",
		Buckets:   m.histogramBuckets,
	})

	m.matchesPersisted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_persisted_total",
		Help:      "Match rows written by replace operations",
	})

	m.lastPoolSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_candidate_pool_size",
		Help:      "Eligible candidates in the most recent run",
	})

	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Scoring failures, including degraded feature-space fits",
	})

	m.candidatesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_skipped_total",
		Help:      "Candidates skipped for malformed profiles",
	})

	m.vectorizeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vectorize_duration_seconds",
		Help:      "Time to fit the TF-IDF/LSA feature space",
		Buckets:   m.histogramBuckets,
	})

	m.lockWaitDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lock_wait_duration_seconds",
		Help:      "Time spent waiting on the per-job trigger lock",
		Buckets:   m.histogramBuckets,
	})
}

// RecordRun counts a completed matching run.
func RecordRun(method, outcome string) {
	globalManager.runsTotal.WithLabelValues(method, outcome).Inc()
}

// RecordRunDuration records the wall time of a matching run in seconds.
func RecordRunDuration(seconds float64) {
	globalManager.runDuration.Observe(seconds)
}

// RecordMatchesPersisted counts match rows written.
func RecordMatchesPersisted(n int) {
	globalManager.matchesPersisted.Add(float64(n))
}

// UpdateLastPoolSize sets the candidate pool size of the latest run.
func UpdateLastPoolSize(n int) {
	globalManager.lastPoolSize.Set(float64(n))
}

// RecordScoringError counts a scoring failure.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordCandidateSkipped counts a skipped candidate.
func RecordCandidateSkipped() {
	globalManager.candidatesSkipped.Inc()
}

// RecordVectorizeDuration records feature-space fitting time in seconds.
func RecordVectorizeDuration(seconds float64) {
	globalManager.vectorizeDuration.Observe(seconds)
}

// RecordLockWait records per-job lock wait time in seconds.
func RecordLockWait(seconds float64) {
	globalManager.lockWaitDuration.Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by the engine, for
// the embedding application to expose.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
