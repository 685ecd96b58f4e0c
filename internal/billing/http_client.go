package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	entErrors "github.com/skillshub/skillshub-go/internal/errors"
	"github.com/skillshub/skillshub-go/internal/logging"
	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

// subscriptionPayload is the wire shape returned by the billing collaborator.
// Everything beyond the status and the tier-identifying field is optional
// display-only data.
type subscriptionPayload struct {
	SubscriptionStatus string `json:"subscription_status"`
	PriceID            string `json:"price_id,omitempty"`
	TierHint           string `json:"tier_hint,omitempty"`
	CurrentPeriodEnd   *int64 `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	PaymentMethodBrand string `json:"payment_method_brand,omitempty"`
	PaymentMethodLast4 string `json:"payment_method_last4,omitempty"`
}

func (p subscriptionPayload) toRecord() *entitlement.SubscriptionRecord {
	record := &entitlement.SubscriptionRecord{
		Status:             entitlement.MapBillingStatus(p.SubscriptionStatus),
		TierHint:           p.TierHint,
		CancelAtPeriodEnd:  p.CancelAtPeriodEnd,
		PaymentMethodBrand: p.PaymentMethodBrand,
		PaymentMethodLast4: p.PaymentMethodLast4,
	}
	if record.TierHint == "" {
		record.TierHint = p.PriceID
	}
	if p.CurrentPeriodEnd != nil {
		periodEnd := time.Unix(*p.CurrentPeriodEnd, 0)
		record.PeriodEnd = &periodEnd
	}
	return record
}

// HTTPClient talks to the billing collaborator over HTTP.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewHTTPClient creates a billing client for the given base URL.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		log:        logging.WithComponent("billing"),
	}
}

// FetchSubscription returns the subscription record for a user.
// 404 means "confirmed no subscription" and returns (nil, nil).
func (c *HTTPClient) FetchSubscription(ctx context.Context, userID string) (*entitlement.SubscriptionRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, entErrors.ErrInvalidInput
	}

	endpoint := fmt.Sprintf("%s/v1/subscriptions/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, entErrors.WrapFetchError("fetch_subscription", userID, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("Subscription fetch failed")
		return nil, entErrors.WrapFetchError("fetch_subscription", userID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// No row: a valid, meaningful state, not an error.
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, entErrors.NewEntitlementError(entErrors.ErrorTypeAuth, "fetch_subscription", userID, entErrors.ErrUnauthorized).
			WithStatusCode(resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, entErrors.NewEntitlementError(entErrors.ErrorTypeConnection, "fetch_subscription", userID,
			fmt.Errorf("unexpected status %d", resp.StatusCode)).WithStatusCode(resp.StatusCode)
	}

	var payload subscriptionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, entErrors.WrapParseError("fetch_subscription", userID, err)
	}

	return payload.toRecord(), nil
}

// CheckoutHTTPClient creates checkout sessions via the billing collaborator.
type CheckoutHTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewCheckoutHTTPClient creates a checkout client for the given base URL.
func NewCheckoutHTTPClient(baseURL, token string, timeout time.Duration) *CheckoutHTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CheckoutHTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateCheckoutSession requests a checkout redirect URL.
func (c *CheckoutHTTPClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	if strings.TrimSpace(params.PriceID) == "" {
		return nil, entErrors.ErrInvalidInput
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, entErrors.WrapFetchError("create_checkout_session", "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, entErrors.WrapFetchError("create_checkout_session", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, entErrors.NewEntitlementError(entErrors.ErrorTypeConnection, "create_checkout_session", "",
			fmt.Errorf("unexpected status %d", resp.StatusCode)).WithStatusCode(resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, entErrors.WrapParseError("create_checkout_session", "", err)
	}
	if session.URL == "" {
		return nil, entErrors.WrapParseError("create_checkout_session", "",
			fmt.Errorf("response missing redirect url"))
	}

	return &session, nil
}
