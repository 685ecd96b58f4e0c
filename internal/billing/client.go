// Package billing adapts external billing collaborators into the resolved
// subscription records the entitlement core consumes. It never implements
// billing logic itself: no invoicing, no webhook verification.
package billing

import (
	"context"
	"errors"

	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

// ErrNotPurchasable is returned when checkout is requested for a tier that
// has no purchasable plan (explorer is free).
var ErrNotPurchasable = errors.New("tier has no purchasable plan")

// Client fetches the authoritative subscription record for an identity.
//
// A (nil, nil) return means "confirmed no subscription" and is not an error;
// a non-nil error means "failed to check", which callers must keep distinct
// from a confirmed absence.
type Client interface {
	FetchSubscription(ctx context.Context, userID string) (*entitlement.SubscriptionRecord, error)
}

// CheckoutParams describes a checkout session request. The core only
// consumes the returned URL for a client-side redirect.
type CheckoutParams struct {
	PriceID    string `json:"price_id"`
	Mode       string `json:"mode"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// CheckoutSession is the collaborator's response to a checkout request.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CheckoutClient creates checkout sessions with the payment collaborator.
type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}
