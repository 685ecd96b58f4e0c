package entitlement

import (
	"strings"
	"time"
)

// SubscriptionStatus is the normalized lifecycle status of a billing
// subscription. Raw billing statuses are mapped through MapBillingStatus;
// nothing outside this closed set circulates in the entitlement core.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusTrialing SubscriptionStatus = "trialing"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusNone     SubscriptionStatus = "none"
)

// MapBillingStatus normalizes a raw billing status string.
// Unknown statuses map to StatusNone so they never grant paid capabilities.
func MapBillingStatus(raw string) SubscriptionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "canceled":
		return StatusCanceled
	case "past_due", "unpaid":
		return StatusPastDue
	default:
		return StatusNone
	}
}

// GrantsPaidTier reports whether a status allows the subscription's plan hint
// to elevate the tier. Canceled and past-due subscriptions must not retain
// residual access.
func GrantsPaidTier(status SubscriptionStatus) bool {
	switch status {
	case StatusActive, StatusTrialing:
		return true
	default:
		return false
	}
}

// SubscriptionRecord is the resolved billing state for one identity.
// It is read-only: refreshed by re-fetch, never patched in place.
// A nil record is a valid state meaning "no paid subscription".
type SubscriptionRecord struct {
	Status            SubscriptionStatus `json:"status"`
	TierHint          string             `json:"tier_hint,omitempty"`
	PeriodEnd         *time.Time         `json:"period_end,omitempty"`
	CancelAtPeriodEnd bool               `json:"cancel_at_period_end"`

	// Display-only payment method summary.
	PaymentMethodBrand string `json:"payment_method_brand,omitempty"`
	PaymentMethodLast4 string `json:"payment_method_last4,omitempty"`
}

// IsActive reports whether the subscription is in the active status.
func (r *SubscriptionRecord) IsActive() bool {
	return r != nil && r.Status == StatusActive
}

// IsTrialing reports whether the subscription is in a trial.
func (r *SubscriptionRecord) IsTrialing() bool {
	return r != nil && r.Status == StatusTrialing
}

// IsCanceled reports whether the subscription has been canceled.
func (r *SubscriptionRecord) IsCanceled() bool {
	return r != nil && r.Status == StatusCanceled
}

// IsPastDue reports whether payment collection has fallen behind.
func (r *SubscriptionRecord) IsPastDue() bool {
	return r != nil && r.Status == StatusPastDue
}

// HasPaidAccess reports whether the record currently grants a paid tier.
func (r *SubscriptionRecord) HasPaidAccess() bool {
	return r != nil && GrantsPaidTier(r.Status)
}
