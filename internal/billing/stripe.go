package billing

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"

	entErrors "github.com/skillshub/skillshub-go/internal/errors"
	"github.com/skillshub/skillshub-go/internal/logging"
	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

// StripeClient resolves subscription records directly from Stripe.
// Identities map to Stripe customers; userID here is the Stripe customer ID
// attached to the identity at sign-up.
type StripeClient struct {
	api *stripeclient.API
	log zerolog.Logger
}

// NewStripeClient creates a Stripe-backed billing client.
func NewStripeClient(secretKey string) *StripeClient {
	api := &stripeclient.API{}
	api.Init(secretKey, nil)
	return &StripeClient{
		api: api,
		log: logging.WithComponent("billing.stripe"),
	}
}

// FetchSubscription returns the most recent subscription for a customer,
// mapped to the entitlement core's record shape. Customers without any
// subscription return (nil, nil).
func (c *StripeClient) FetchSubscription(ctx context.Context, userID string) (*entitlement.SubscriptionRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, entErrors.ErrInvalidInput
	}

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(userID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.AddExpand("data.default_payment_method")

	iter := c.api.Subscriptions.List(params)
	if !iter.Next() {
		if err := iter.Err(); err != nil {
			c.log.Warn().Err(err).Str("customer", userID).Msg("Stripe subscription list failed")
			return nil, entErrors.WrapFetchError("fetch_subscription", userID, err)
		}
		return nil, nil
	}

	return MapStripeSubscription(iter.Subscription()), nil
}

// MapStripeSubscription converts a Stripe subscription into the entitlement
// record shape. Unknown Stripe statuses normalize to "none" so they never
// grant paid capabilities.
func MapStripeSubscription(sub *stripe.Subscription) *entitlement.SubscriptionRecord {
	if sub == nil {
		return nil
	}

	record := &entitlement.SubscriptionRecord{
		Status:            entitlement.MapBillingStatus(string(sub.Status)),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}

	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil {
			record.TierHint = item.Price.ID
		}
		if item.CurrentPeriodEnd > 0 {
			periodEnd := time.Unix(item.CurrentPeriodEnd, 0)
			record.PeriodEnd = &periodEnd
		}
	}

	if pm := sub.DefaultPaymentMethod; pm != nil && pm.Card != nil {
		record.PaymentMethodBrand = string(pm.Card.Brand)
		record.PaymentMethodLast4 = pm.Card.Last4
	}

	return record
}

// StripeCheckoutClient creates Stripe Checkout sessions.
type StripeCheckoutClient struct {
	api *stripeclient.API
}

// NewStripeCheckoutClient creates a Stripe-backed checkout client.
func NewStripeCheckoutClient(secretKey string) *StripeCheckoutClient {
	api := &stripeclient.API{}
	api.Init(secretKey, nil)
	return &StripeCheckoutClient{api: api}
}

// CreateCheckoutSession creates a subscription checkout session and returns
// its redirect URL.
func (c *StripeCheckoutClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	if strings.TrimSpace(params.PriceID) == "" {
		return nil, entErrors.ErrInvalidInput
	}

	mode := params.Mode
	if mode == "" {
		mode = string(stripe.CheckoutSessionModeSubscription)
	}

	checkoutParams := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(mode),
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(params.PriceID), Quantity: stripe.Int64(1)},
		},
	}
	checkoutParams.Context = ctx

	sess, err := c.api.CheckoutSessions.New(checkoutParams)
	if err != nil {
		return nil, entErrors.WrapFetchError("create_checkout_session", "", err)
	}

	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}
