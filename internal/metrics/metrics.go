// Package metrics provides Prometheus instruments for scheduling and dispatch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samvad-hq/samvad-post-curator/internal/domain"
)

const namespace = "curator"

// Dispatch outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

// Metrics groups the collectors registered for one process.
type Metrics struct {
	PostsScheduled    *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
	PostsDeleted      prometheus.Counter
	TransitionsDenied prometheus.Counter

	DispatchTotal    *prometheus.CounterVec
	DispatchDuration prometheus.Histogram
	DuePosts         prometheus.Gauge
}

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		PostsScheduled: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "posts_scheduled_total",
				Help:      "Total number of posts accepted into the schedule",
			},
			[]string{"platform"},
		),
		StatusTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "post_status_transitions_total",
				Help:      "Total number of applied post status transitions",
			},
			[]string{"status"},
		),
		PostsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_deleted_total",
			Help:      "Total number of deleted posts",
		}),
		TransitionsDenied: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_status_transitions_rejected_total",
			Help:      "Total number of status updates rejected because the post was already terminal",
		}),
		DispatchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Total number of dispatched posts by outcome",
			},
			[]string{"platform", "outcome"},
		),
		DispatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_tick_duration_seconds",
			Help:      "Duration of dispatch ticks in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		DuePosts: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "due_posts",
			Help:      "Number of pending posts found due on the last tick",
		}),
	}
}

// PostScheduled records an accepted post.
func (m *Metrics) PostScheduled(platform domain.Platform) {
	m.PostsScheduled.WithLabelValues(string(platform)).Inc()
}

// PostTransitioned records an applied status change.
func (m *Metrics) PostTransitioned(to domain.Status) {
	m.StatusTransitions.WithLabelValues(string(to)).Inc()
}

// PostDeleted records a deletion.
func (m *Metrics) PostDeleted() { m.PostsDeleted.Inc() }

// TransitionRejected records an update refused by the state machine.
func (m *Metrics) TransitionRejected() { m.TransitionsDenied.Inc() }

// RecordDispatch records the outcome for one post.
func (m *Metrics) RecordDispatch(platform domain.Platform, outcome string) {
	m.DispatchTotal.WithLabelValues(string(platform), outcome).Inc()
}

// RecordTick records one dispatch tick.
func (m *Metrics) RecordTick(due int, took time.Duration) {
	m.DuePosts.Set(float64(due))
	m.DispatchDuration.Observe(took.Seconds())
}
