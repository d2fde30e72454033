// internal/application/usecase/payment_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	paydom "boutique/internal/domain/payment"
)

var (
	ErrPaymentInvalidArgument = errors.New("payment_usecase: invalid argument")
)

// PaymentUsecase creates payment intents through the provider port.
// Provider may be nil (degraded boot); then every call answers
// ErrProviderUnavailable.
type PaymentUsecase struct {
	provider paydom.Provider
}

func NewPaymentUsecase(provider paydom.Provider) *PaymentUsecase {
	return &PaymentUsecase{provider: provider}
}

// CreateIntent asks the provider for a new intent. One attempt only; a
// failure comes back to the caller as-is.
func (uc *PaymentUsecase) CreateIntent(ctx context.Context, uid string, amount float64, currency string) (*paydom.Intent, error) {
	if uc == nil || uc.provider == nil {
		return nil, paydom.ErrProviderUnavailable
	}
	u := strings.TrimSpace(uid)
	cur := strings.ToLower(strings.TrimSpace(currency))
	if u == "" || amount <= 0 || cur == "" {
		return nil, ErrPaymentInvalidArgument
	}
	return uc.provider.CreateIntent(ctx, u, amount, cur)
}
