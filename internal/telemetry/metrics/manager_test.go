package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterSessions.Inc()
	m.CounterMeals.WithLabelValues("add").Inc()
	m.CounterMeals.WithLabelValues("add").Inc()
	m.CounterLookups.WithLabelValues("barcode", "false").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterSessions))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterMeals.WithLabelValues("add")))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		byName[f.GetName()] = f
	}

	lookups, ok := byName["fittrack_test_server_food_lookups"]
	require.True(t, ok)
	require.Len(t, lookups.GetMetric(), 1)
	assert.Equal(t, float64(1), lookups.GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, dto.MetricType_COUNTER, lookups.GetType())
}

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus()
	m := NewManager("fittrack", "setup_test", reg)
	m.GaugeLifeSignal.Set(1)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GaugeLifeSignal))
}
