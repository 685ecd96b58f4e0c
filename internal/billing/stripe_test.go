package billing

import (
	"testing"

	"github.com/stripe/stripe-go/v82"

	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

func TestMapStripeSubscription(t *testing.T) {
	sub := &stripe.Subscription{
		Status:            stripe.SubscriptionStatusActive,
		CancelAtPeriodEnd: true,
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					Price:            &stripe.Price{ID: "price_architect_annual"},
					CurrentPeriodEnd: 1767225600,
				},
			},
		},
		DefaultPaymentMethod: &stripe.PaymentMethod{
			Card: &stripe.PaymentMethodCard{Brand: stripe.PaymentMethodCardBrandVisa, Last4: "4242"},
		},
	}

	record := MapStripeSubscription(sub)

	if record.Status != entitlement.StatusActive {
		t.Errorf("status = %s, want active", record.Status)
	}
	if record.TierHint != "price_architect_annual" {
		t.Errorf("tier hint = %q", record.TierHint)
	}
	if !record.CancelAtPeriodEnd {
		t.Error("cancel_at_period_end not carried over")
	}
	if record.PeriodEnd == nil || record.PeriodEnd.Unix() != 1767225600 {
		t.Errorf("period end = %v", record.PeriodEnd)
	}
	if record.PaymentMethodBrand != "visa" || record.PaymentMethodLast4 != "4242" {
		t.Errorf("payment method = %s/%s", record.PaymentMethodBrand, record.PaymentMethodLast4)
	}

	if got := entitlement.MapTier(record); got != entitlement.TierArchitect {
		t.Errorf("mapped tier = %s, want architect", got)
	}
}

func TestMapStripeSubscription_StatusNormalization(t *testing.T) {
	tests := []struct {
		status stripe.SubscriptionStatus
		want   entitlement.SubscriptionStatus
	}{
		{stripe.SubscriptionStatusActive, entitlement.StatusActive},
		{stripe.SubscriptionStatusTrialing, entitlement.StatusTrialing},
		{stripe.SubscriptionStatusCanceled, entitlement.StatusCanceled},
		{stripe.SubscriptionStatusPastDue, entitlement.StatusPastDue},
		{stripe.SubscriptionStatusUnpaid, entitlement.StatusPastDue},
		{stripe.SubscriptionStatusIncomplete, entitlement.StatusNone},
		{stripe.SubscriptionStatusIncompleteExpired, entitlement.StatusNone},
		{stripe.SubscriptionStatusPaused, entitlement.StatusNone},
	}

	for _, tt := range tests {
		record := MapStripeSubscription(&stripe.Subscription{Status: tt.status})
		if record.Status != tt.want {
			t.Errorf("MapStripeSubscription(%s) status = %s, want %s", tt.status, record.Status, tt.want)
		}
	}
}

func TestMapStripeSubscription_Nil(t *testing.T) {
	if MapStripeSubscription(nil) != nil {
		t.Error("nil subscription should map to nil record")
	}
}

func TestMapStripeSubscription_SparsePayload(t *testing.T) {
	record := MapStripeSubscription(&stripe.Subscription{Status: stripe.SubscriptionStatusActive})

	if record.TierHint != "" || record.PeriodEnd != nil {
		t.Errorf("sparse payload produced %+v", record)
	}
	// Active with no recognizable plan still fails closed.
	if got := entitlement.MapTier(record); got != entitlement.TierExplorer {
		t.Errorf("mapped tier = %s, want explorer", got)
	}
}
