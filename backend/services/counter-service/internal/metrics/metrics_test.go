package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.SessionStarted("A")
	m.SessionStarted("A")
	m.SessionStopped("A", 2250)
	m.Revenue("bar", 0)
	m.BulkRecords("mark_paid", "billiard", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsStarted.WithLabelValues("A")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsStopped.WithLabelValues("A")))
	assert.Equal(t, 2250.0, testutil.ToFloat64(m.revenue.WithLabelValues("billiard")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.bulkRecords.WithLabelValues("mark_paid", "billiard")))

	_, err = New(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SessionStarted("A")
		m.SessionStopped("A", 1000)
		m.Revenue("bar", 5)
		m.BulkRecords("delete_paid", "bar", 1)
	})
}
