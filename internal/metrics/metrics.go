package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dorfportal/reminder-service/internal/reminder"
	"github.com/dorfportal/reminder-service/internal/scheduler"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	CyclesTotal         prometheus.Counter
	CycleDuration       prometheus.Histogram
	SchedulerRunning    prometheus.Gauge
	RemindersDispatched *prometheus.CounterVec
	PushDelivered       prometheus.Counter
	PushFailed          *prometheus.CounterVec
	SubscriptionsPruned prometheus.Counter
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_cycles_total",
			Help: "Total number of completed reminder scan cycles.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reminder_cycle_seconds",
			Help:    "Duration of one scan-and-dispatch cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reminder_scheduler_running",
			Help: "1 while the reminder clock is armed, 0 otherwise.",
		}),
		RemindersDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_dispatched_total",
			Help: "Reminders that reached at least one subscriber, by moderation queue.",
		}, []string{"queue"}),
		PushDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "push_deliveries_total",
			Help: "Total number of successful push deliveries.",
		}),
		PushFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "push_failures_total",
			Help: "Failed push deliveries, by failure class (transient or gone).",
		}, []string{"reason"}),
		SubscriptionsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "push_subscriptions_pruned_total",
			Help: "Subscriptions removed after the push service reported them gone.",
		}),
	}

	reg.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.SchedulerRunning,
		m.RemindersDispatched,
		m.PushDelivered,
		m.PushFailed,
		m.SubscriptionsPruned,
	)

	return m
}

// ClockHooks returns the callbacks expected by scheduler.Hooks.
// Centralises the prometheus observation calls so the clock stays import-free.
func (m *Metrics) ClockHooks() scheduler.Hooks {
	return scheduler.Hooks{
		OnState: func(running bool) {
			if running {
				m.SchedulerRunning.Set(1)
				return
			}
			m.SchedulerRunning.Set(0)
		},
		OnCycle: func(elapsed time.Duration) {
			m.CyclesTotal.Inc()
			m.CycleDuration.Observe(elapsed.Seconds())
		},
	}
}

// DispatchHooks returns the callbacks expected by reminder.MetricHooks.
func (m *Metrics) DispatchHooks() reminder.MetricHooks {
	return reminder.MetricHooks{
		OnDelivered: func() { m.PushDelivered.Inc() },
		OnFailed:    func(reason string) { m.PushFailed.WithLabelValues(reason).Inc() },
		OnPruned:    func() { m.SubscriptionsPruned.Inc() },
	}
}

// OnDispatched returns the per-queue counter callback used by the cycle service.
func (m *Metrics) OnDispatched() func(queue string) {
	return func(queue string) {
		m.RemindersDispatched.WithLabelValues(queue).Inc()
	}
}
