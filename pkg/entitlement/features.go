package entitlement

import "sort"

// Feature tag constants represent gated capabilities in SkillsHub.
// These are checked at gating call sites via CanAccess.
const (
	// Builder tier features
	FeatureAITools         = "ai_tools"         // AI learning tools
	FeatureLearningJournal = "learning_journal" // Learning journal
	FeatureUnlimitedSkills = "unlimited_skills" // Skill saves beyond the explorer cap

	// Architect tier features (everything in Builder, plus:)
	FeatureExpertHours     = "expert_hours"     // Expert office hours
	FeaturePriorityMatrix  = "priority_matrix"  // Priority matrix tools
	FeaturePremiumProjects = "premium_projects" // Unlimited full project access
)

// explorerFeatures is intentionally empty: the free tier has no gated features.
var explorerFeatures = []string{}

// builderFeatures adds AI tooling and journaling on top of explorer.
var builderFeatures = appendFeatures(explorerFeatures,
	FeatureAITools,
	FeatureLearningJournal,
	FeatureUnlimitedSkills,
)

// architectFeatures adds expert access and premium projects on top of builder.
var architectFeatures = appendFeatures(builderFeatures,
	FeatureExpertHours,
	FeaturePriorityMatrix,
	FeaturePremiumProjects,
)

// appendFeatures returns a new slice with extra features appended (no mutation).
func appendFeatures(base []string, extra ...string) []string {
	result := make([]string, len(base), len(base)+len(extra))
	copy(result, base)
	return append(result, extra...)
}

// TierFeatures maps each tier to its included feature tags.
var TierFeatures = map[Tier][]string{
	TierExplorer:  explorerFeatures,
	TierBuilder:   builderFeatures,
	TierArchitect: architectFeatures,
}

// TierHasFeature checks if a tier includes a specific feature tag.
// Unknown tags and unknown tiers both resolve to false.
func TierHasFeature(tier Tier, tag string) bool {
	features, ok := TierFeatures[tier]
	if !ok {
		return false
	}
	for _, f := range features {
		if f == tag {
			return true
		}
	}
	return false
}

// KnownFeatureTag reports whether the tag belongs to the closed feature set.
// Gating never consults this (unknown tags simply deny); callers can use it
// to catch typos in tests.
func KnownFeatureTag(tag string) bool {
	for _, f := range architectFeatures {
		if f == tag {
			return true
		}
	}
	return false
}

// AllFeatureTags returns the closed feature set, sorted.
func AllFeatureTags() []string {
	tags := append([]string(nil), architectFeatures...)
	sort.Strings(tags)
	return tags
}

// FeatureMinTier returns the lowest tier that includes the given feature tag.
// Used for user-facing upgrade messages. Returns false for unknown tags.
func FeatureMinTier(tag string) (Tier, bool) {
	for _, tier := range OrderedTiers() {
		if TierHasFeature(tier, tag) {
			return tier, true
		}
	}
	return "", false
}

// GetFeatureDisplayName returns a human-readable name for a feature tag.
func GetFeatureDisplayName(tag string) string {
	switch tag {
	case FeatureAITools:
		return "AI Learning Tools"
	case FeatureLearningJournal:
		return "Learning Journal"
	case FeatureUnlimitedSkills:
		return "Unlimited Skills"
	case FeatureExpertHours:
		return "Expert Office Hours"
	case FeaturePriorityMatrix:
		return "Priority Matrix Tools"
	case FeaturePremiumProjects:
		return "Unlimited Projects"
	default:
		return tag
	}
}
