package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OnboardingTransitions counts successful step completions by step.
	OnboardingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_transitions_total",
			Help: "Total number of successful onboarding step transitions",
		},
		[]string{"step"},
	)

	// OnboardingRejections counts rejected completion attempts by reason.
	OnboardingRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_rejections_total",
			Help: "Total number of rejected onboarding step completions",
		},
		[]string{"reason"},
	)

	// ReconcileRuns counts reconciler runs by outcome.
	ReconcileRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_reconcile_runs_total",
			Help: "Total number of onboarding reconciler runs",
		},
		[]string{"outcome"},
	)

	// ReconcileAdvances counts steps advanced by the reconciler.
	ReconcileAdvances = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_reconcile_advances_total",
			Help: "Total number of steps advanced by the onboarding reconciler",
		},
		[]string{"step"},
	)
)
