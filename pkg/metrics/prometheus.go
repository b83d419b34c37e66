// Package metrics provides Prometheus metrics for the songplays ETL job.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Manager manages all Prometheus metrics for one ETL run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Input
	rowsRead    *prometheus.CounterVec
	objectsRead *prometheus.CounterVec
	bytesRead   *prometheus.CounterVec

	// Output
	rowsWritten       *prometheus.CounterVec
	filesWritten      *prometheus.CounterVec
	duplicatesDropped *prometheus.CounterVec
	unmatchedPlays    prometheus.Counter

	// Stages
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "songplays",
		subsystem:        "etl",
		histogramBuckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		enabled:          true,
		constLabels:      make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_read_total",
		Help:        "Total number of JSON records decoded per input dataset",
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.objectsRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "objects_read_total",
		Help:        "Total number of objects fetched per input dataset",
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.bytesRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "bytes_read_total",
		Help:        "Total number of bytes fetched per input dataset",
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.rowsWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_written_total",
		Help:        "Total number of rows written per output table",
		ConstLabels: m.constLabels,
	}, []string{"table"})

	m.filesWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "files_written_total",
		Help:        "Total number of parquet files written per output table",
		ConstLabels: m.constLabels,
	}, []string{"table"})

	m.duplicatesDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duplicates_dropped_total",
		Help:        "Total number of duplicate rows removed per output table",
		ConstLabels: m.constLabels,
	}, []string{"table"})

	m.unmatchedPlays = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unmatched_songplays_total",
		Help:        "Song plays without a matching song in the metadata",
		ConstLabels: m.constLabels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Wall time of each pipeline stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.stageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_errors_total",
		Help:        "Number of failed pipeline stages",
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.lastSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_unix",
		Help:        "Unix time of the last successful run",
		ConstLabels: m.constLabels,
	})
}

// Registry exposes the registry the manager records into.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordRead accounts one fetched object of a dataset.
func (m *Manager) RecordRead(dataset string, bytes, rows int) {
	if !m.enabled {
		return
	}
	m.objectsRead.WithLabelValues(dataset).Inc()
	m.bytesRead.WithLabelValues(dataset).Add(float64(bytes))
	m.rowsRead.WithLabelValues(dataset).Add(float64(rows))
}

// RecordWrite accounts a written table.
func (m *Manager) RecordWrite(table string, files, rows int) {
	if !m.enabled {
		return
	}
	m.filesWritten.WithLabelValues(table).Add(float64(files))
	m.rowsWritten.WithLabelValues(table).Add(float64(rows))
}

// RecordDuplicates accounts rows removed by deduplication.
func (m *Manager) RecordDuplicates(table string, n int) {
	if !m.enabled {
		return
	}
	m.duplicatesDropped.WithLabelValues(table).Add(float64(n))
}

// RecordUnmatchedPlays accounts plays that kept null song/artist ids.
func (m *Manager) RecordUnmatchedPlays(n int) {
	if !m.enabled {
		return
	}
	m.unmatchedPlays.Add(float64(n))
}

// RecordStage observes a stage's duration and outcome.
func (m *Manager) RecordStage(stage string, elapsed time.Duration, err error) {
	if !m.enabled {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

// MarkSuccess stamps the last successful run time.
func (m *Manager) MarkSuccess(at time.Time) {
	if !m.enabled {
		return
	}
	m.lastSuccess.Set(float64(at.Unix()))
}

// Push sends the registry to a Prometheus Pushgateway under job, grouped by runID.
// An empty url is a no-op.
func (m *Manager) Push(ctx context.Context, url, job, runID string) error {
	if url == "" || !m.enabled {
		return nil
	}
	p := push.New(url, job).Gatherer(m.registry)
	if runID != "" {
		p = p.Grouping("run_id", runID)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}
	return nil
}

// Push pushes the global registry.
func Push(ctx context.Context, url, job, runID string) error {
	return globalManager.Push(ctx, url, job, runID)
}

// Default returns the global manager.
func Default() *Manager { return globalManager }
