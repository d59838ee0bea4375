package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestTrackerRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	assert.NoError(t, m.Track("cotacao:dispatch").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("cotacao:dispatch").End(boom), boom)

	assert.Equal(t, 1.0, counterValue(t, reg, "cotacao_jobs_total", map[string]string{"job": "cotacao:dispatch", "status": "success"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "cotacao_jobs_total", map[string]string{"job": "cotacao:dispatch", "status": "failure"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "cotacao_jobs_failures_total", map[string]string{"job": "cotacao:dispatch"}))
}

func TestNilMetricsTrackerIsNoop(t *testing.T) {
	var m *Metrics
	assert.NoError(t, m.Track("x").End(nil))
}
