// Package entitlement defines the shared SkillsHub tier and capability contracts.
//
// This package exists so gating call sites can depend on canonical tier
// metadata without importing internal packages.
package entitlement

// Tier represents a subscription tier.
type Tier string

const (
	TierExplorer  Tier = "explorer"
	TierBuilder   Tier = "builder"
	TierArchitect Tier = "architect"
)

// tierLevels defines the total ordering used for access comparisons.
// Explorer is the floor: any unknown tier compares as explorer.
var tierLevels = map[Tier]int{
	TierExplorer:  0,
	TierBuilder:   1,
	TierArchitect: 2,
}

// TierLevel returns the ordinal position of a tier. Unknown tiers map to the
// explorer level so comparisons fail closed.
func TierLevel(tier Tier) int {
	if level, ok := tierLevels[tier]; ok {
		return level
	}
	return tierLevels[TierExplorer]
}

// IsValidTier reports whether the tier is one of the three known tiers.
func IsValidTier(tier Tier) bool {
	_, ok := tierLevels[tier]
	return ok
}

// MeetsMinimum reports whether current grants at least the access of min.
func MeetsMinimum(current, min Tier) bool {
	return TierLevel(current) >= TierLevel(min)
}

// OrderedTiers lists all tiers from lowest to highest.
func OrderedTiers() []Tier {
	return []Tier{TierExplorer, TierBuilder, TierArchitect}
}

// GetTierDisplayName returns a human-readable name for the tier.
func GetTierDisplayName(tier Tier) string {
	switch tier {
	case TierExplorer:
		return "Explorer"
	case TierBuilder:
		return "Builder"
	case TierArchitect:
		return "Architect"
	default:
		return "Unknown"
	}
}

// GetTierSubtitle returns the marketing subtitle shown on pricing surfaces.
func GetTierSubtitle(tier Tier) string {
	switch tier {
	case TierExplorer:
		return "See What's Possible"
	case TierBuilder:
		return "You're Ready to Create"
	case TierArchitect:
		return "Built for Mastery"
	default:
		return ""
	}
}
