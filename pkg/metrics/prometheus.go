package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Run status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Manager owns the collectors for pipeline runs. A nil *Manager records
// nothing, so callers never need to check.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	stageErrors     *prometheus.CounterVec
	sourceRows      *prometheus.GaugeVec
	renamedColumns  *prometheus.CounterVec
	builderRuns     *prometheus.CounterVec
	tableColumns    prometheus.Gauge
	trainSamples    prometheus.Gauge
	testSamples     prometheus.Gauge
	testAccuracy    prometheus.Gauge
	lastSuccessUnix prometheus.Gauge
}

// NewManager creates a metrics manager registered on its own registry unless
// WithPrometheusRegistry says otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ufcpredictor",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      map[string]string{},
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
	labels := prometheus.Labels(m.constLabels)

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "runs_total",
		Help: "Total number of pipeline runs by status",
	}, []string{"status"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "stage_duration_seconds",
		Help:    "Duration of each pipeline stage in seconds",
		Buckets: m.histogramBuckets,
	}, []string{"stage"})

	m.stageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "stage_errors_total",
		Help: "Total number of failed stages by stage and error type",
	}, []string{"stage", "type"})

	m.sourceRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "source_rows",
		Help: "Rows returned by the last load of each data source",
	}, []string{"source"})

	m.renamedColumns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "renamed_columns_total",
		Help: "Feature columns renamed with the source prefix to avoid a collision",
	}, []string{"source"})

	m.builderRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "builder_runs_total",
		Help: "Feature builder transforms executed",
	}, []string{"builder"})

	m.tableColumns = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "table_columns",
		Help: "Columns in the assembled table of the last run",
	})

	m.trainSamples = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "train_samples",
		Help: "Rows in the train partition of the last run",
	})

	m.testSamples = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "test_samples",
		Help: "Rows in the test partition of the last run",
	})

	m.testAccuracy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "test_accuracy",
		Help: "Accuracy on the test partition of the last run",
	})

	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "last_success_timestamp_seconds",
		Help: "Unix time of the last successful run",
	})
}

func (m *Manager) on() bool { return m != nil && m.enabled }

// Registry returns the registry the collectors live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordRun counts a finished run.
func (m *Manager) RecordRun(err error) {
	if !m.on() {
		return
	}
	if err != nil {
		m.runsTotal.WithLabelValues(StatusFailure).Inc()
		return
	}
	m.runsTotal.WithLabelValues(StatusSuccess).Inc()
	m.lastSuccessUnix.SetToCurrentTime()
}

// ObserveStage records how long a stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	if !m.on() {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordStageError counts a failed stage, labelled with the error kind.
func (m *Manager) RecordStageError(stage string, err error) {
	if !m.on() || err == nil {
		return
	}
	m.stageErrors.WithLabelValues(stage, errorType(err)).Inc()
}

// SetSourceRows records the row count of a loaded source.
func (m *Manager) SetSourceRows(source string, rows int) {
	if !m.on() {
		return
	}
	m.sourceRows.WithLabelValues(source).Set(float64(rows))
}

// AddRenamedColumns counts collision renames for a source.
func (m *Manager) AddRenamedColumns(source string, n int) {
	if !m.on() || n == 0 {
		return
	}
	m.renamedColumns.WithLabelValues(source).Add(float64(n))
}

// RecordBuilder counts an executed builder transform.
func (m *Manager) RecordBuilder(builder string) {
	if !m.on() {
		return
	}
	m.builderRuns.WithLabelValues(builder).Inc()
}

// SetTableShape records the assembled table width.
func (m *Manager) SetTableShape(columns int) {
	if !m.on() {
		return
	}
	m.tableColumns.Set(float64(columns))
}

// SetSplit records partition sizes.
func (m *Manager) SetSplit(train, test int) {
	if !m.on() {
		return
	}
	m.trainSamples.Set(float64(train))
	m.testSamples.Set(float64(test))
}

// SetAccuracy records test accuracy.
func (m *Manager) SetAccuracy(accuracy float64) {
	if !m.on() {
		return
	}
	m.testAccuracy.Set(accuracy)
}

// WriteToTextfile writes every collected metric to path in the text
// exposition format, for pickup by a node exporter textfile collector.
func (m *Manager) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "write metrics textfile %s", path)
	}
	return nil
}

func errorType(err error) string {
	switch {
	case errors.IsConfiguration(err):
		return "configuration"
	case errors.IsMissingJoinKey(err):
		return "missing_join_key"
	case errors.IsCardinality(err):
		return "cardinality"
	case errors.IsDependency(err):
		return "dependency"
	case errors.IsMissingOutcomeColumn(err):
		return "missing_outcome_column"
	case errors.IsLoad(err):
		return "load"
	}
	var ve *errors.ValidationError
	if errors.As(err, &ve) {
		return "validation"
	}
	return "other"
}
