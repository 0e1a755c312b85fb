package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutTransitions counts checkout state changes (counter)
	CheckoutTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "transitions_total",
			Help:      "The total number of checkout state transitions",
		},
		[]string{"from", "to"},
	)

	// CommitDuration time spent waiting on the booking commit call (summary)
	CommitDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "checkout",
			Name:       "commit_duration_seconds",
			Help:       "Time spent committing bookings to the backend",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"outcome"},
	)

	// BackendRequests backend calls by endpoint and outcome (counter)
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backend",
			Name:      "requests_total",
			Help:      "The total number of requests sent to the marketplace backend",
		},
		[]string{"endpoint", "outcome"},
	)

	// DraftsSwept expired handoff drafts removed by the janitor (counter)
	DraftsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "drafts",
			Name:      "swept_total",
			Help:      "The total number of expired drafts removed from memory",
		},
	)
)
