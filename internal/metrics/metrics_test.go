package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Capture(CaptureNew)
	m.Capture(CaptureNew)
	m.Capture(CaptureDuplicate)
	m.Mutation("trash")
	m.Error("trash")
	m.InboxFile()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Captures.WithLabelValues(CaptureNew)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Captures.WithLabelValues(CaptureDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("trash")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("trash")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InboxFiles))
}

func TestMetrics_ObserveQuery(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveQuery("find", time.Now().Add(-10*time.Millisecond))

	assert.Equal(t, 1, testutil.CollectAndCount(m.QueryDuration, "ideas_query_duration_seconds"))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Capture(CaptureNew)
		m.Mutation("x")
		m.Error("x")
		m.InboxFile()
		m.ObserveQuery("x", time.Now())
	})
}

func TestMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestSummarize(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Capture(CaptureNew)
	m.Mutation("move")
	m.Mutation("move")
	m.ObserveQuery("find", time.Now())

	got, err := Summarize(reg)
	require.NoError(t, err)

	assert.Equal(t, 1.0, got["ideas_captures_total{status=new}"])
	assert.Equal(t, 2.0, got["ideas_mutations_total{operation=move}"])
	assert.Equal(t, 0.0, got["ideas_inbox_files_total"])
	_, hasHistogram := got["ideas_query_duration_seconds{operation=find}"]
	assert.False(t, hasHistogram)
}
