package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveStage("invert", time.Millisecond, nil)
	m.ObserveStage("invert", time.Millisecond, errors.New("boom"))
	m.ObserveRun(ModeIncremental, nil)
	m.ObserveRebuild(5, nil)
	m.ObserveRebuild(9, errors.New("bad"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageEvaluations.WithLabelValues("invert", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageEvaluations.WithLabelValues("invert", ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(ModeIncremental, ResultOK)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.graphStages))

	count, err := testutil.GatherAndCount(reg, "filtergrid_graph_rebuilds_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage("x", 0, nil)
		m.ObserveRun(ModeFull, nil)
		m.ObserveRebuild(1, nil)
	})
}
