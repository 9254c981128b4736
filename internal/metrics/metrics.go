package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for Transitions.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeRejected   = "rejected"
	OutcomeForbidden  = "forbidden"
	OutcomeInFlight   = "in_flight"
	OutcomeError      = "error"
)

var (
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_transitions_total",
		Help: "Status transitions attempted, by entity domain and outcome.",
	}, []string{"domain", "outcome"})

	TransitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_transition_duration_seconds",
		Help:    "Time from transition request to acknowledged update.",
		Buckets: prometheus.DefBuckets,
	}, []string{"domain"})

	Invalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_read_model_invalidations_total",
		Help: "Read-model cache invalidations, by kind and result.",
	}, []string{"kind", "result"})
)
