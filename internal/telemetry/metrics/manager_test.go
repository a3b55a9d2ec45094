package metrics_test

import (
	"bytes"
	"testing"

	"github.com/2beens/fittracker/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Registers(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()

	m.CounterRequests.WithLabelValues("list", "200").Inc()
	m.CounterRequests.WithLabelValues("list", "200").Inc()
	m.CounterTolerated.WithLabelValues("list", "not_found").Inc()
	m.GaugeStoreWorkouts.Set(3)
	m.HistogramRequestDuration.WithLabelValues("list").Observe(0.02)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterRequests.WithLabelValues("list", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CounterTolerated, "fittracker_test_client_api_tolerated_responses"))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	gauge := byName["fittracker_test_client_store_workouts"]
	require.NotNil(t, gauge)
	assert.Equal(t, dto.MetricType_GAUGE, gauge.GetType())
	assert.Equal(t, float64(3), gauge.GetMetric()[0].GetGauge().GetValue())

	hist := byName["fittracker_test_client_api_request_duration_seconds"]
	require.NotNil(t, hist)
	assert.Equal(t, uint64(1), hist.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestDump(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	m.CounterRequests.WithLabelValues("delete", "204").Inc()
	m.GaugeInFlightRequests.Set(0)

	var buf bytes.Buffer
	require.NoError(t, metrics.Dump(&buf, reg, "fittracker_test_client_api_request"))
	assert.Equal(t, "fittracker_test_client_api_request{operation=\"delete\",status=\"204\"} 1\n", buf.String())

	buf.Reset()
	require.NoError(t, metrics.Dump(&buf, reg, "fittracker_test_client_api_in_flight"))
	assert.Equal(t, "fittracker_test_client_api_in_flight_requests 0\n", buf.String())
}

func TestSetupPrometheus(t *testing.T) {
	m, _ := metrics.NewTestManagerAndRegistry()
	reg := metrics.SetupPrometheus(m.CounterRequests)
	m.CounterRequests.WithLabelValues("get", "200").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "go_goroutines")
	assert.Contains(t, names, "fittracker_test_client_api_request")
}
