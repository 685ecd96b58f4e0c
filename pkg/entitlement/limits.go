package entitlement

// ResourceKind identifies a quota-gated resource.
type ResourceKind string

const (
	ResourceSkills   ResourceKind = "skills"
	ResourceProjects ResourceKind = "projects"
)

// Unlimited is the sentinel limit value meaning no ceiling.
// It must never be compared arithmetically against counts; CheckLimit treats
// any limit <= 0 as unbounded.
const Unlimited int64 = 0

// IsUnlimited reports whether a limit value means no ceiling.
func IsUnlimited(limit int64) bool {
	return limit <= 0
}

// Limits holds the per-tier resource ceilings. A value of 0 means unlimited.
type Limits struct {
	MaxSkills   int64 `json:"max_skills"`
	MaxProjects int64 `json:"max_projects"`
}

// For returns the ceiling for a resource kind. The second return is false
// for unknown kinds; callers must treat that as a denial, never as
// unlimited.
func (l Limits) For(kind ResourceKind) (int64, bool) {
	switch kind {
	case ResourceSkills:
		return l.MaxSkills, true
	case ResourceProjects:
		return l.MaxProjects, true
	default:
		return 0, false
	}
}

// TierLimits maps each tier to its resource ceilings.
var TierLimits = map[Tier]Limits{
	TierExplorer:  {MaxSkills: 3, MaxProjects: 5},
	TierBuilder:   {MaxSkills: 10, MaxProjects: 15},
	TierArchitect: {MaxSkills: Unlimited, MaxProjects: Unlimited},
}

// LimitsForTier returns the ceilings for a tier. Unknown tiers get the
// explorer ceilings (fail closed).
func LimitsForTier(tier Tier) Limits {
	if limits, ok := TierLimits[tier]; ok {
		return limits
	}
	return TierLimits[TierExplorer]
}

// CheckResult is the outcome of evaluating a count against a limit.
type CheckResult struct {
	CanAdd    bool  `json:"can_add"`
	Remaining int64 `json:"remaining"`
	Limit     int64 `json:"limit"`
	Unlimited bool  `json:"unlimited"`
}

// CheckLimit evaluates an observed count against a ceiling. Pure function:
// identical inputs always yield identical results. Unbounded limits admit
// any count and report Unlimited rather than a finite remaining value.
func CheckLimit(limit, currentCount int64) CheckResult {
	if IsUnlimited(limit) {
		return CheckResult{CanAdd: true, Limit: limit, Unlimited: true}
	}

	remaining := limit - currentCount
	if remaining < 0 {
		remaining = 0
	}
	return CheckResult{
		CanAdd:    currentCount < limit,
		Remaining: remaining,
		Limit:     limit,
	}
}
