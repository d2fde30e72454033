package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique/internal/adapters/in/http/middleware"
	usecase "boutique/internal/application/usecase"
	paydom "boutique/internal/domain/payment"
	sessdom "boutique/internal/domain/session"
)

type countingProvider struct {
	calls  int
	err    error
	intent *paydom.Intent
}

func (p *countingProvider) CreateIntent(ctx context.Context, uid string, amount float64, currency string) (*paydom.Intent, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.intent, nil
}

// paymentStack mounts the handler behind SessionAuth the way the router does.
func paymentStack(provider paydom.Provider) http.Handler {
	ident := newStubIdentity()
	ident.valid["session-1"] = &sessdom.Claims{UID: "u1"}
	auth := &middleware.SessionAuth{Sessions: usecase.NewSessionUsecase(ident)}
	return auth.Handler(NewPaymentHandler(usecase.NewPaymentUsecase(provider)))
}

func postIntent(t *testing.T, h http.Handler, cookie, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/payments/intent", strings.NewReader(body))
	if cookie != "" {
		r.AddCookie(&http.Cookie{Name: usecase.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestPaymentIntentRequiresSession(t *testing.T) {
	h := paymentStack(&countingProvider{})
	w := postIntent(t, h, "", `{"amount":10,"currency":"usd"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentIntentDelegatesToProvider(t *testing.T) {
	p := &countingProvider{intent: &paydom.Intent{ID: "pi_1", ClientSecret: "sec", Amount: 10, Currency: "usd"}}
	h := paymentStack(p)

	w := postIntent(t, h, "session-1", `{"amount":10,"currency":"usd"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, p.calls)
	assert.Contains(t, w.Body.String(), "pi_1")
}

func TestPaymentIntentUnavailableWhenProviderMissing(t *testing.T) {
	h := paymentStack(nil)
	w := postIntent(t, h, "session-1", `{"amount":10,"currency":"usd"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"payment_unavailable"}`, w.Body.String())
}

func TestPaymentIntentFailureSurfacedOnceNeverRetried(t *testing.T) {
	p := &countingProvider{err: assert.AnError}
	h := paymentStack(p)

	w := postIntent(t, h, "session-1", `{"amount":10,"currency":"usd"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 1, p.calls, "one attempt only")
}

func TestPaymentIntentValidatesBody(t *testing.T) {
	p := &countingProvider{}
	h := paymentStack(p)

	for _, body := range []string{`{"amount":0,"currency":"usd"}`, `{"amount":10}`, `garbage`} {
		w := postIntent(t, h, "session-1", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
	assert.Zero(t, p.calls)
}
