package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notifier_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// FeedEvents change feed consumption stats
	FeedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_feed_events_total",
			Help: "Change feed events consumed, by operation type",
		},
		[]string{"operation"},
	)

	// DispatchDecisions dispatch policy outcomes
	DispatchDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_dispatch_decisions_total",
			Help: "Dispatch policy decisions, by notification type and decision",
		},
		[]string{"type", "decision"},
	)

	// Deliveries push delivery attempts
	Deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_deliveries_total",
			Help: "Push delivery attempts, by platform and outcome",
		},
		[]string{"platform", "outcome"},
	)

	// TokenDeactivations tokens disabled after failed deliveries
	TokenDeactivations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifier_token_deactivations_total",
			Help: "Device tokens deactivated after delivery failures",
		},
	)

	// SweepDuration reminder sweep timing
	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notifier_reminder_sweep_duration_seconds",
			Help:    "Duration of reminder sweeps",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func Init() {
	prometheus.MustRegister(
		HTTPRequests,
		RequestDuration,
		FeedEvents,
		DispatchDecisions,
		Deliveries,
		TokenDeactivations,
		SweepDuration,
	)
}
