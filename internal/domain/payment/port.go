// internal/domain/payment/port.go
package payment

import (
	"context"
	"errors"
)

var ErrProviderUnavailable = errors.New("payment: provider unavailable")

// Intent is a provider-side payment intent reference.
type Intent struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// Provider is the port to the external payment service (Stripe/PayPal class).
// Provider internals are out of scope; only intent creation is modeled.
// Failures are surfaced once and never silently retried — a duplicate charge
// is worse than a visible failure.
type Provider interface {
	CreateIntent(ctx context.Context, uid string, amount float64, currency string) (*Intent, error)
}
