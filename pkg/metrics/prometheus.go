package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run outcomes used as the outcome label of training_runs_total.
const (
	OutcomeSuccess         = "success"
	OutcomeDataUnavailable = "data_unavailable"
	OutcomeInvalidDataset  = "invalid_dataset"
	OutcomeTraining        = "training_failed"
	OutcomeSerialization   = "serialization_failed"
)

// Trainer stages used as the stage label of stage_duration_milliseconds.
const (
	StageFetch    = "fetch"
	StageValidate = "validate"
	StageFit      = "fit"
	StageSave     = "save"
)

// Stage durations run from sub-millisecond fits to multi-second fetches.
var defaultStageBuckets = []float64{1, 5, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

// Manager owns the Prometheus metrics of a training run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	runs           *prometheus.CounterVec
	recordsFetched prometheus.Gauge
	recordsSkipped prometheus.Gauge
	vocabularySize prometheus.Gauge
	classes        prometheus.Gauge
	stageDuration  *prometheus.HistogramVec
	artifactBytes  prometheus.Gauge
	lastSuccess    prometheus.Gauge
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
		namespace:        "memoclass",
		subsystem:        "trainer",
		histogramBuckets: defaultStageBuckets,
		enabled:          true,
		constLabels:      map[string]string{},
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

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "training_runs_total",
		Help:        "Total number of training runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.recordsFetched = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_fetched",
		Help:        "Labeled records returned by the source in the last run",
		ConstLabels: m.constLabels,
	})

	m.recordsSkipped = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_skipped",
		Help:        "Records dropped for blank content or label in the last run",
		ConstLabels: m.constLabels,
	})

	m.vocabularySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "vocabulary_size",
		Help:        "Number of terms learned by the vectorizer in the last run",
		ConstLabels: m.constLabels,
	})

	m.classes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "classes",
		Help:        "Number of distinct classifications learned in the last run",
		ConstLabels: m.constLabels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_milliseconds",
		Help:        "Duration of each training stage in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.artifactBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "artifact_bytes",
		Help:        "Size of the last written model artifact",
		ConstLabels: m.constLabels,
	})

	m.lastSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_timestamp_seconds",
		Help:        "Unix time of the last successful training run",
		ConstLabels: m.constLabels,
	})
}

// RecordRun counts a finished run under outcome.
func (m *Manager) RecordRun(outcome string) {
	if m.enabled {
		m.runs.WithLabelValues(outcome).Inc()
	}
}

// RecordStageDuration observes how long stage took.
func (m *Manager) RecordStageDuration(stage string, d time.Duration) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(float64(d) / float64(time.Millisecond))
	}
}

// UpdateDataset sets the fetched and skipped record gauges.
func (m *Manager) UpdateDataset(fetched, skipped int) {
	if m.enabled {
		m.recordsFetched.Set(float64(fetched))
		m.recordsSkipped.Set(float64(skipped))
	}
}

// UpdateModel sets the vocabulary and class gauges.
func (m *Manager) UpdateModel(vocabulary, classes int) {
	if m.enabled {
		m.vocabularySize.Set(float64(vocabulary))
		m.classes.Set(float64(classes))
	}
}

// RecordSuccess stores the artifact size and completion time of a run.
func (m *Manager) RecordSuccess(bytes int64, at time.Time) {
	if m.enabled {
		m.artifactBytes.Set(float64(bytes))
		m.lastSuccess.Set(float64(at.Unix()))
	}
}

// RecordRun counts a finished run on the global manager.
func RecordRun(outcome string) {
	globalManager.RecordRun(outcome)
}

// RecordStageDuration observes a stage duration on the global manager.
func RecordStageDuration(stage string, d time.Duration) {
	globalManager.RecordStageDuration(stage, d)
}

// UpdateDataset sets the dataset gauges on the global manager.
func UpdateDataset(fetched, skipped int) {
	globalManager.UpdateDataset(fetched, skipped)
}

// UpdateModel sets the model gauges on the global manager.
func UpdateModel(vocabulary, classes int) {
	globalManager.UpdateModel(vocabulary, classes)
}

// RecordSuccess records a successful run on the global manager.
func RecordSuccess(bytes int64, at time.Time) {
	globalManager.RecordSuccess(bytes, at)
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Push sends the contents of the custom registry to the Pushgateway at url,
// replacing every metric previously pushed under job.
func Push(ctx context.Context, url, job string) error {
	err := push.New(url, job).Gatherer(customRegistry).PushContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPushFailed, err)
	}
	return nil
}
