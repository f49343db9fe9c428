package observability

import (
	"context"

	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the simulator collectors.
type Metrics struct {
	Trials        *prometheus.CounterVec
	Steps         *prometheus.CounterVec
	Distance      *prometheus.HistogramVec
	BatchDuration *prometheus.HistogramVec
	BatchFailures *prometheus.CounterVec
	Teleports     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Trials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drunkard_trials_total",
				Help: "Total number of completed trials",
			},
			[]string{"policy"},
		),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drunkard_steps_total",
				Help: "Total number of steps walked across completed trials",
			},
			[]string{"policy"},
		),
		Distance: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "drunkard_distance",
				Help:    "Distance from the start at the end of each trial",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"policy"},
		),
		BatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "drunkard_batch_duration_seconds",
				Help: "Wall time of each batch of trials",
			},
			[]string{"policy"},
		),
		BatchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drunkard_batch_failures_total",
				Help: "Batches aborted by an error or cancellation",
			},
			[]string{"policy"},
		),
		Teleports: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "drunkard_teleports_total",
				Help: "Walkers redirected through a wormhole",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Trials, m.Steps, m.Distance, m.BatchDuration, m.BatchFailures, m.Teleports)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrialComplete: func(_ context.Context, e *domain.TrialEvent) {
			policy := e.Policy.String()
			m.Trials.WithLabelValues(policy).Inc()
			m.Steps.WithLabelValues(policy).Add(float64(e.Steps))
			m.Distance.WithLabelValues(policy).Observe(e.Distance)
		},
		OnBatchComplete: func(_ context.Context, e *domain.BatchEvent) {
			policy := e.Policy.String()
			m.BatchDuration.WithLabelValues(policy).Observe(e.Elapsed.Seconds())
			if e.Failed {
				m.BatchFailures.WithLabelValues(policy).Inc()
			}
		},
		OnTeleport: func(*domain.TeleportEvent) {
			m.Teleports.Inc()
		},
	}
}
