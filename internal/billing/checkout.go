package billing

import (
	"context"

	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

// Checkout wraps a CheckoutClient with plan-level helpers and the configured
// redirect URLs.
type Checkout struct {
	client     CheckoutClient
	successURL string
	cancelURL  string
}

// NewCheckout creates a checkout helper.
func NewCheckout(client CheckoutClient, successURL, cancelURL string) *Checkout {
	return &Checkout{client: client, successURL: successURL, cancelURL: cancelURL}
}

// planPrices maps paid tiers to their default monthly price IDs. These must
// stay inside the entitlement plan allow-list or the purchased tier would
// resolve to explorer after checkout.
var planPrices = map[entitlement.Tier]string{
	entitlement.TierBuilder:   "price_builder_monthly",
	entitlement.TierArchitect: "price_architect_monthly",
}

// CreateForTier creates a checkout session for a paid tier's default plan.
func (c *Checkout) CreateForTier(ctx context.Context, tier entitlement.Tier) (*CheckoutSession, error) {
	priceID, ok := planPrices[tier]
	if !ok {
		return nil, ErrNotPurchasable
	}
	return c.client.CreateCheckoutSession(ctx, CheckoutParams{
		PriceID:    priceID,
		Mode:       "subscription",
		SuccessURL: c.successURL,
		CancelURL:  c.cancelURL,
	})
}

// CreateBuilderCheckout creates a checkout session for the builder plan.
func (c *Checkout) CreateBuilderCheckout(ctx context.Context) (*CheckoutSession, error) {
	return c.CreateForTier(ctx, entitlement.TierBuilder)
}

// CreateArchitectCheckout creates a checkout session for the architect plan.
func (c *Checkout) CreateArchitectCheckout(ctx context.Context) (*CheckoutSession, error) {
	return c.CreateForTier(ctx, entitlement.TierArchitect)
}
