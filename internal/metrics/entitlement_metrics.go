package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tier resolution metrics
	TierResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillshub_tier_resolutions_total",
			Help: "Total number of tier resolutions by resulting tier and mapping outcome",
		},
		[]string{"tier", "outcome"},
	)

	UnknownPlanFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillshub_unknown_plan_fallbacks_total",
			Help: "Total number of active subscriptions downgraded to explorer because the plan hint was not recognized",
		},
	)

	SubscriptionFetchErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillshub_subscription_fetch_errors_total",
			Help: "Total number of subscription fetches that failed and fell back to the free tier",
		},
	)

	StaleFetchesDiscardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillshub_stale_fetches_discarded_total",
			Help: "Total number of subscription fetch responses discarded because the identity changed mid-flight",
		},
	)

	// Quota metrics
	QuotaDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillshub_quota_denials_total",
			Help: "Total number of resource additions denied by tier quota",
		},
		[]string{"resource", "tier"},
	)

	// Session lifecycle metrics
	SessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillshub_session_transitions_total",
			Help: "Total number of session transitions by kind",
		},
		[]string{"kind"}, // sign_in, sign_out, recovered, expired_discarded
	)
)

// RecordTierResolution records the outcome of a tier mapping.
func RecordTierResolution(tier, outcome string) {
	TierResolutionsTotal.WithLabelValues(tier, outcome).Inc()
	if outcome == "unknown_plan" {
		UnknownPlanFallbacksTotal.Inc()
	}
}

// RecordQuotaDenial records a denied resource addition.
func RecordQuotaDenial(resource, tier string) {
	QuotaDenialsTotal.WithLabelValues(resource, tier).Inc()
}

// RecordSessionTransition records a session lifecycle event.
func RecordSessionTransition(kind string) {
	SessionTransitionsTotal.WithLabelValues(kind).Inc()
}
