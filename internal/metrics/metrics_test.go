package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("requests_total", nil, "Total requests")
	r.IncrementCounter("requests_total", nil, "Total requests")
	r.AddToCounter("requests_total", 3, nil, "Total requests")

	metrics := r.GetAllMetrics()
	counters := metrics["counters"].(map[string]*Metric)
	require.Contains(t, counters, "requests_total")
	assert.Equal(t, float64(5), counters["requests_total"].Value)
}

func TestCounterLabelsAreSeparateSeries(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("responses_total", map[string]string{"status": "200"}, "")
	r.IncrementCounter("responses_total", map[string]string{"status": "500"}, "")
	r.IncrementCounter("responses_total", map[string]string{"status": "200"}, "")

	counters := r.GetAllMetrics()["counters"].(map[string]*Metric)
	assert.Equal(t, float64(2), counters["responses_total_status:200"].Value)
	assert.Equal(t, float64(1), counters["responses_total_status:500"].Value)
}

func TestMetricKeyIsDeterministic(t *testing.T) {
	a := metricKey("m", map[string]string{"a": "1", "b": "2", "c": "3"})
	b := metricKey("m", map[string]string{"c": "3", "a": "1", "b": "2"})
	assert.Equal(t, a, b)
}

func TestTimer(t *testing.T) {
	r := NewRegistry()

	r.RecordTimer("op_duration", 10*time.Millisecond, nil)
	r.RecordTimer("op_duration", 30*time.Millisecond, nil)
	r.RecordTimer("op_duration", 20*time.Millisecond, nil)

	timers := r.GetAllMetrics()["timers"].(map[string]*TimerMetric)
	timer := timers["op_duration"]
	require.NotNil(t, timer)

	assert.Equal(t, int64(3), timer.Count)
	assert.InDelta(t, 10, timer.Min, 0.01)
	assert.InDelta(t, 30, timer.Max, 0.01)
	assert.InDelta(t, 20, timer.Average, 0.01)
}

func TestTimerPercentiles(t *testing.T) {
	r := NewRegistry()

	for i := 1; i <= 100; i++ {
		r.RecordTimer("op_duration", time.Duration(i)*time.Millisecond, nil)
	}

	timers := r.GetAllMetrics()["timers"].(map[string]*TimerMetric)
	timer := timers["op_duration"]
	require.NotNil(t, timer)

	assert.InDelta(t, 96, timer.P95, 1.5)
	assert.InDelta(t, 100, timer.P99, 1.5)
}

func TestGauge(t *testing.T) {
	r := NewRegistry()

	r.SetGauge("active_chats", 7, nil, "Open chats")
	r.SetGauge("active_chats", 4, nil, "Open chats")

	gauges := r.GetAllMetrics()["gauges"].(map[string]*Metric)
	assert.Equal(t, float64(4), gauges["active_chats"].Value)
}

func TestGetAllMetricsIncludesUptime(t *testing.T) {
	r := NewRegistry()
	metrics := r.GetAllMetrics()

	assert.Contains(t, metrics, "uptime_ms")
	assert.Contains(t, metrics, "timestamp")
}
