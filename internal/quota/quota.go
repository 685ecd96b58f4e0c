// Package quota decides whether resource additions are admitted under the
// current entitlement snapshot. It only checks; the caller performs the
// actual mutation after an admit.
package quota

import (
	"github.com/rs/zerolog"

	"github.com/skillshub/skillshub-go/internal/entitlements"
	"github.com/skillshub/skillshub-go/internal/logging"
	"github.com/skillshub/skillshub-go/internal/metrics"
	"github.com/skillshub/skillshub-go/internal/notifications"
	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

// CheckLimit evaluates a resource count against the snapshot's ceilings.
// Pure and synchronous. While entitlement is still loading the check denies:
// an optimistic admit could grant what the resolved tier will reject.
func CheckLimit(snap entitlements.Snapshot, resource entitlement.ResourceKind, currentCount int64) entitlement.CheckResult {
	if snap.IsLoading() {
		return entitlement.CheckResult{}
	}

	limit, ok := snap.Limits.For(resource)
	if !ok {
		// Unknown resource kind: deny rather than crash or admit.
		return entitlement.CheckResult{}
	}

	return entitlement.CheckLimit(limit, currentCount)
}

// Enforcer gates resource additions and emits denial notifications.
type Enforcer struct {
	dispatcher *notifications.Dispatcher
	log        zerolog.Logger
}

// NewEnforcer creates an enforcer publishing denials to dispatcher.
// A nil dispatcher disables notifications (checks still enforce).
func NewEnforcer(dispatcher *notifications.Dispatcher) *Enforcer {
	return &Enforcer{
		dispatcher: dispatcher,
		log:        logging.WithComponent("quota"),
	}
}

// AttemptAdd checks admission for one more resource. On denial it emits
// exactly one notification and returns false; on admit it returns true and
// performs no side effect, leaving the mutation to the caller.
func (e *Enforcer) AttemptAdd(snap entitlements.Snapshot, resource entitlement.ResourceKind, currentCount int64) bool {
	result := CheckLimit(snap, resource, currentCount)
	if result.CanAdd {
		return true
	}

	metrics.RecordQuotaDenial(string(resource), string(snap.Tier))
	e.log.Info().
		Str("resource", string(resource)).
		Str("tier", string(snap.Tier)).
		Int64("current", currentCount).
		Int64("limit", result.Limit).
		Bool("loading", snap.IsLoading()).
		Msg("Resource addition denied")

	if e.dispatcher != nil {
		e.dispatcher.Publish(notifications.NewLimitReached(resource, currentCount, result.Limit, snap.Tier))
	}
	return false
}
