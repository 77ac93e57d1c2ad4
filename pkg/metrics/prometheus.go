// Package metrics provides Prometheus metrics for the rating engine.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the engine's Prometheus collectors.
type Manager struct {
	namespace       string
	subsystem       string
	durationBuckets []float64
	enabled         bool
	constLabels     map[string]string
	registry        *prometheus.Registry

	// Engine
	ratingsComputed   prometheus.Counter
	invalidInputs     prometheus.Counter
	targetSolutions   *prometheus.CounterVec
	targetIterations  prometheus.Histogram
	requiredScenarios *prometheus.CounterVec

	// Profiles
	profilesEvaluated  prometheus.Counter
	profileErrors      prometheus.Counter
	evaluationDuration prometheus.Histogram

	// Batch and watch
	batchQueueSize prometheus.Gauge
	batchJobs      *prometheus.CounterVec
	watchReloads   prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithRegistry it registers
// on a fresh registry of its own.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "ptt",
		subsystem:       "engine",
		durationBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
		enabled:         true,
		constLabels:     map[string]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		}, labels)
	}

	m.ratingsComputed = counter("ratings_computed_total", "Single-result ratings computed")
	m.invalidInputs = counter("invalid_inputs_total", "Rating requests rejected for invalid input")
	m.targetSolutions = counterVec("target_solutions_total", "Target-score searches by outcome", "outcome")
	m.targetIterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "target_search_iterations",
		Help:        "Binary search iterations per target-score search",
		Buckets:     prometheus.LinearBuckets(0, 4, 7),
		ConstLabels: m.constLabels,
	})
	m.requiredScenarios = counterVec("required_scenarios_total", "Required-difficulty solves by displacement scenario", "scenario")

	m.profilesEvaluated = counter("profiles_evaluated_total", "Profiles evaluated into reports")
	m.profileErrors = counter("profile_evaluation_errors_total", "Profiles that failed to load or evaluate")
	m.evaluationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluation_duration_milliseconds",
		Help:        "Time to evaluate one profile in milliseconds",
		Buckets:     m.durationBuckets,
		ConstLabels: m.constLabels,
	})

	m.batchQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: "batch_queue_size",
		Help: "Jobs waiting in the batch queue", ConstLabels: m.constLabels,
	})
	m.batchJobs = counterVec("batch_jobs_total", "Batch jobs by final status", "status")
	m.watchReloads = counter("watch_reloads_total", "Profile re-evaluations triggered by file changes")
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordRating counts one computed rating, or an invalid input when ok is false.
func (m *Manager) RecordRating(ok bool) {
	if !m.enabled {
		return
	}
	if ok {
		m.ratingsComputed.Inc()
		return
	}
	m.invalidInputs.Inc()
}

// RecordTargetSolution records one target-score search.
func (m *Manager) RecordTargetSolution(outcome string, iterations int) {
	if !m.enabled {
		return
	}
	m.targetSolutions.WithLabelValues(outcome).Inc()
	m.targetIterations.Observe(float64(iterations))
}

// RecordRequiredScenario records one required-difficulty solve.
func (m *Manager) RecordRequiredScenario(scenario string) {
	if !m.enabled {
		return
	}
	m.requiredScenarios.WithLabelValues(scenario).Inc()
}

// RecordProfileEvaluated records a successful evaluation and its duration.
func (m *Manager) RecordProfileEvaluated(durationMs float64) {
	if !m.enabled {
		return
	}
	m.profilesEvaluated.Inc()
	m.evaluationDuration.Observe(durationMs)
}

// RecordProfileError counts a failed profile.
func (m *Manager) RecordProfileError() {
	if !m.enabled {
		return
	}
	m.profileErrors.Inc()
}

// UpdateBatchQueueSize sets the current batch backlog.
func (m *Manager) UpdateBatchQueueSize(size int) {
	if !m.enabled {
		return
	}
	m.batchQueueSize.Set(float64(size))
}

// RecordBatchJob counts a finished batch job by status (ok, failed).
func (m *Manager) RecordBatchJob(status string) {
	if !m.enabled {
		return
	}
	m.batchJobs.WithLabelValues(status).Inc()
}

// RecordWatchReload counts a re-evaluation triggered by the watcher.
func (m *Manager) RecordWatchReload() {
	if !m.enabled {
		return
	}
	m.watchReloads.Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// Global returns the process-wide manager.
func Global() *Manager { return globalManager }

// GetRegistry returns the registry of the process-wide manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the process-wide metrics to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}
