package entitlement

import "strings"

// PlanTiers is the allow-list mapping billing plan identifiers to tiers.
// Both bare plan names and concrete Stripe price IDs are accepted; anything
// outside this table resolves to no tier. The mapping is never a pass-through
// of arbitrary external plan strings.
var PlanTiers = map[string]Tier{
	"explorer": TierExplorer,
	"builder":  TierBuilder,
	"architect": TierArchitect,

	"price_explorer_free":     TierExplorer,
	"price_builder_monthly":   TierBuilder,
	"price_builder_annual":    TierBuilder,
	"price_architect_monthly": TierArchitect,
	"price_architect_annual":  TierArchitect,
}

// TierFromPlanHint resolves a plan or price identifier to a tier.
// Returns false for unrecognized hints; the caller decides how to surface
// the fallback (the mapper downgrades to explorer).
func TierFromPlanHint(hint string) (Tier, bool) {
	tier, ok := PlanTiers[strings.ToLower(strings.TrimSpace(hint))]
	return tier, ok
}
