// Package entitlements composes the session store, subscription resolver,
// and capability table into a single recomputed snapshot consumed by all
// gating call sites.
package entitlements

import (
	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

// State is the resolution state of a snapshot. Loading is distinct from a
// resolved explorer tier: consumers must be able to tell "we don't know yet"
// from "we know you get the free tier".
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Snapshot is the facade's current output. It is recomputed wholesale on
// every session or subscription change, never patched in place.
type Snapshot struct {
	State  State                           `json:"state"`
	Tier   entitlement.Tier                `json:"tier"`
	Limits entitlement.Limits              `json:"limits"`
	Record *entitlement.SubscriptionRecord `json:"record,omitempty"`
	Err    error                           `json:"-"`
}

// IsLoading reports whether the subscription is still resolving.
func (s Snapshot) IsLoading() bool {
	return s.State == StateLoading
}

// HasAccess reports whether the current tier grants at least minTier.
func (s Snapshot) HasAccess(minTier entitlement.Tier) bool {
	return entitlement.MeetsMinimum(s.Tier, minTier)
}

// CanAccess reports whether the current tier includes the feature tag.
// Unknown tags deny rather than erroring.
func (s Snapshot) CanAccess(featureTag string) bool {
	return entitlement.TierHasFeature(s.Tier, featureTag)
}

// HasPaidAccess reports whether the resolved subscription grants a paid tier.
func (s Snapshot) HasPaidAccess() bool {
	return s.State == StateReady && s.Record.HasPaidAccess()
}

func loadingSnapshot() Snapshot {
	return Snapshot{
		State:  StateLoading,
		Tier:   entitlement.TierExplorer,
		Limits: entitlement.LimitsForTier(entitlement.TierExplorer),
	}
}

func signedOutSnapshot() Snapshot {
	return Snapshot{
		State:  StateReady,
		Tier:   entitlement.TierExplorer,
		Limits: entitlement.LimitsForTier(entitlement.TierExplorer),
	}
}

func errorSnapshot(err error) Snapshot {
	// Fail closed: the fetch error is observable for retry/UX, but the
	// tier falls back to explorer.
	return Snapshot{
		State:  StateError,
		Tier:   entitlement.TierExplorer,
		Limits: entitlement.LimitsForTier(entitlement.TierExplorer),
		Err:    err,
	}
}

func readySnapshot(record *entitlement.SubscriptionRecord, tier entitlement.Tier) Snapshot {
	return Snapshot{
		State:  StateReady,
		Tier:   tier,
		Limits: entitlement.LimitsForTier(tier),
		Record: record,
	}
}
