package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the reminder job metrics
type Metrics struct {
	RemindersSent   *prometheus.CounterVec
	GuardConflicts  *prometheus.CounterVec
	ChannelFailures *prometheus.CounterVec
	MilestoneErrors *prometheus.CounterVec
	Cancellations   prometheus.Counter
	RunDuration     prometheus.Histogram
	RunsTotal       *prometheus.CounterVec
}

// New registers the reminder metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	const namespace, subsystem = "partyplan", "payment_reminders"

	return &Metrics{
		RemindersSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sent_total",
			Help:      "Reminders that passed the idempotency guard and were dispatched",
		}, []string{"milestone"}),
		GuardConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "already_sent_total",
			Help:      "Reminders skipped because the milestone was already recorded",
		}, []string{"milestone"}),
		ChannelFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "channel_failures_total",
			Help:      "Failed deliveries per channel",
		}, []string{"channel"}),
		MilestoneErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "errors_total",
			Help:      "Errors counted in run results per milestone",
		}, []string{"milestone"}),
		Cancellations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_cancelled_total",
			Help:      "Events cancelled for non-payment at the final milestone",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full reminder run",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Reminder runs by outcome",
		}, []string{"outcome"}),
	}
}
