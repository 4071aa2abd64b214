// Package metrics defines the Prometheus collectors of the pipeline engine.
//
// All methods are safe on a nil *Metrics, so components can run without
// instrumentation in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "filtergrid"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Run mode label values.
const (
	ModeFull        = "full"
	ModeIncremental = "incremental"
)

// Metrics holds the engine's collectors.
type Metrics struct {
	stageEvaluations *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	runs             *prometheus.CounterVec
	rebuilds         *prometheus.CounterVec
	graphStages      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		stageEvaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_evaluations_total",
			Help:      "Stage evaluations by filter kind and result.",
		}, []string{"kind", "result"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_evaluation_duration_seconds",
			Help:      "Duration of a single stage evaluation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"kind"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_runs_total",
			Help:      "Full and incremental evaluation runs by result.",
		}, []string{"mode", "result"}),
		rebuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_rebuilds_total",
			Help:      "Structural graph rebuilds by result.",
		}, []string{"result"}),
		graphStages: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_stages",
			Help:      "Number of stages in the current graph, sources included.",
		}),
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveStage records one stage evaluation.
func (m *Metrics) ObserveStage(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.stageEvaluations.WithLabelValues(kind, result(err)).Inc()
	m.stageDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveRun records the outcome of a full or incremental run.
func (m *Metrics) ObserveRun(mode string, err error) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(mode, result(err)).Inc()
}

// ObserveRebuild records a rebuild; stages is the size of the new graph and
// is ignored on failure.
func (m *Metrics) ObserveRebuild(stages int, err error) {
	if m == nil {
		return
	}
	m.rebuilds.WithLabelValues(result(err)).Inc()
	if err == nil {
		m.graphStages.Set(float64(stages))
	}
}
