package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the bot's Prometheus collectors.
type Metrics struct {
	InteractionsTotal   *prometheus.CounterVec
	InteractionDuration *prometheus.HistogramVec
	MutationsTotal      *prometheus.CounterVec

	ReminderMessagesTotal *prometheus.CounterVec
	ReminderSweepsTotal   prometheus.Counter
}

// NewMetrics registers the collectors once per process; later calls return
// the same instance.
//
// Metrics:
//   - listd_interactions_total{kind,outcome}
//   - listd_interaction_duration_seconds{kind}
//   - listd_list_mutations_total{op}
//   - listd_reminder_messages_total{result}
//   - listd_reminder_sweeps_total
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			InteractionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "listd_interactions_total",
					Help: "Total number of handled interactions",
				},
				[]string{"kind", "outcome"},
			),
			InteractionDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "listd_interaction_duration_seconds",
					Help:    "Time spent handling one interaction",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"kind"},
			),
			MutationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "listd_list_mutations_total",
					Help: "Total number of persisted list mutations",
				},
				[]string{"op"},
			),
			ReminderMessagesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "listd_reminder_messages_total",
					Help: "Reminder messages by delivery result",
				},
				[]string{"result"},
			),
			ReminderSweepsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "listd_reminder_sweeps_total",
					Help: "Total number of completed reminder sweeps",
				},
			),
		}
	})
	return globalMetrics
}

// The recorders below accept a nil receiver so callers can run without metrics.

func (m *Metrics) ObserveInteraction(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.InteractionsTotal.WithLabelValues(kind, outcome).Inc()
	m.InteractionDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) ReminderMessage(result string) {
	if m == nil {
		return
	}
	m.ReminderMessagesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ReminderSweep() {
	if m == nil {
		return
	}
	m.ReminderSweepsTotal.Inc()
}
