package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIsSingleton(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestRecorders(t *testing.T) {
	m := NewMetrics()

	before := testutil.ToFloat64(m.InteractionsTotal.WithLabelValues("command", "ok"))
	m.ObserveInteraction("command", "ok", 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(m.InteractionsTotal.WithLabelValues("command", "ok")))

	before = testutil.ToFloat64(m.MutationsTotal.WithLabelValues("add"))
	m.Mutation("add")
	assert.Equal(t, before+1, testutil.ToFloat64(m.MutationsTotal.WithLabelValues("add")))

	before = testutil.ToFloat64(m.ReminderSweepsTotal)
	m.ReminderSweep()
	assert.Equal(t, before+1, testutil.ToFloat64(m.ReminderSweepsTotal))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveInteraction("command", "ok", time.Second)
		m.Mutation("add")
		m.ReminderMessage("sent")
		m.ReminderSweep()
	})
}
