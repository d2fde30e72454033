// internal/adapters/out/http/stripe_intent_client.go
package httpout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	paydom "boutique/internal/domain/payment"
)

// StripeIntentClient implements payment.Provider against a payment-service
// wrapper endpoint (the provider SDK itself stays out of this codebase).
//
// baseURL example:
// - Cloud Run wrapper: https://xxxxx.asia-northeast1.run.app
// - local: http://localhost:8081
type StripeIntentClient struct {
	baseURL string
	client  *http.Client
}

func NewStripeIntentClient(baseURL string) *StripeIntentClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &StripeIntentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type intentRequest struct {
	UID      string  `json:"uid"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type intentResponse struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Error        string  `json:"error,omitempty"`
}

// CreateIntent asks the wrapper to create a payment intent. Failures are
// returned to the caller untouched — never retried here, a duplicate charge
// is worse than a visible failure.
func (c *StripeIntentClient) CreateIntent(ctx context.Context, uid string, amount float64, currency string) (*paydom.Intent, error) {
	if c == nil || c.baseURL == "" {
		return nil, paydom.ErrProviderUnavailable
	}

	payload := intentRequest{
		UID:      strings.TrimSpace(uid),
		Amount:   amount,
		Currency: strings.TrimSpace(currency),
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment-intents", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment intent failed status=%d body=%s",
			res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out intentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("payment intent decode failed: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("payment provider: %s", out.Error)
	}

	return &paydom.Intent{
		ID:           out.ID,
		ClientSecret: out.ClientSecret,
		Amount:       out.Amount,
		Currency:     out.Currency,
	}, nil
}
