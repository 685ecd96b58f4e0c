package entitlement

// MapOutcome explains how a tier was derived from a subscription record.
// The facade uses it for operator logging and metrics at the fail-closed
// fallback paths.
type MapOutcome string

const (
	OutcomeNoRecord    MapOutcome = "no_record"    // nil record: free tier
	OutcomeLapsed      MapOutcome = "lapsed"       // canceled/past_due/none status
	OutcomeUnknownPlan MapOutcome = "unknown_plan" // active status, unrecognized hint
	OutcomeMatched     MapOutcome = "matched"      // plan hint resolved
)

// MapTier derives the tier for a subscription record.
// Pure function, no I/O. A nil record, a lapsed status, or an unrecognized
// plan hint all resolve to explorer: uncertainty never grants access.
func MapTier(record *SubscriptionRecord) Tier {
	tier, _ := MapTierDetail(record)
	return tier
}

// MapTierDetail is MapTier plus the outcome that produced the tier.
func MapTierDetail(record *SubscriptionRecord) (Tier, MapOutcome) {
	if record == nil {
		return TierExplorer, OutcomeNoRecord
	}
	if !GrantsPaidTier(record.Status) {
		// A lapsed subscription must not retain residual access,
		// regardless of its plan hint.
		return TierExplorer, OutcomeLapsed
	}
	tier, ok := TierFromPlanHint(record.TierHint)
	if !ok {
		// Unknown plan must not silently grant elevated access.
		return TierExplorer, OutcomeUnknownPlan
	}
	return tier, OutcomeMatched
}
