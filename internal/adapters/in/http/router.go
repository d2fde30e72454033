// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"boutique/internal/adapters/in/http/handlers"
	"boutique/internal/adapters/in/http/middleware"
	usecase "boutique/internal/application/usecase"
	"boutique/internal/ratelimit"
)

// RouterDeps collects all usecases (and other dependencies) injected from main.go.
// Nil usecases simply leave their routes unmounted (degraded boot).
type RouterDeps struct {
	SessionUC    *usecase.SessionUsecase
	AccountUC    *usecase.AccountUsecase
	ProductUC    *usecase.ProductUsecase
	OrderUC      *usecase.OrderUsecase
	NewsletterUC *usecase.NewsletterUsecase
	PaymentUC    *usecase.PaymentUsecase

	Limiter *ratelimit.Limiter

	// AllowedOrigin is the storefront origin for CORS (credentials mode).
	AllowedOrigin string

	// SecureCookies toggles the Secure attribute (production).
	SecureCookies bool
}

// NewRouter sets up HTTP routing for all endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	rl := func(p ratelimit.Preset, h http.Handler) http.Handler {
		return middleware.RateLimit(deps.Limiter, p)(h)
	}

	sessionAuth := &middleware.SessionAuth{Sessions: deps.SessionUC}
	adminOnly := &middleware.AdminOnly{Accounts: deps.AccountUC}
	adminChain := func(h http.Handler) http.Handler {
		return sessionAuth.Handler(adminOnly.Handler(h))
	}

	if deps.SessionUC != nil {
		authH := handlers.NewAuthHandler(deps.SessionUC, deps.AccountUC, deps.SecureCookies)
		mux.Handle("/auth/session", rl(ratelimit.PresetSessionExchange, authH))
		mux.Handle("/auth/verify", authH)
		mux.Handle("/auth/logout", authH)
	}

	if deps.ProductUC != nil {
		productH := handlers.NewProductHandler(deps.ProductUC)
		mux.Handle("/products", rl(ratelimit.PresetGeneral,
			readsPublicMutationsGated(productH, adminChain(productH))))
		mux.Handle("/products/", rl(ratelimit.PresetGeneral,
			readsPublicMutationsGated(productH, adminChain(productH))))
	}

	if deps.OrderUC != nil {
		orderH := handlers.NewOrderHandler(deps.OrderUC)
		mux.Handle("/orders", rl(ratelimit.PresetGeneral,
			readsPublicMutationsGated(orderH, adminChain(orderH))))
		mux.Handle("/orders/", rl(ratelimit.PresetGeneral,
			readsPublicMutationsGated(orderH, adminChain(orderH))))
	}

	if deps.NewsletterUC != nil {
		mux.Handle("/newsletter",
			rl(ratelimit.PresetNewsletter, handlers.NewNewsletterHandler(deps.NewsletterUC)))
	}

	if deps.PaymentUC != nil {
		mux.Handle("/payments/intent",
			rl(ratelimit.PresetPayment, sessionAuth.Handler(handlers.NewPaymentHandler(deps.PaymentUC))))
	}

	var h http.Handler = mux
	h = middleware.Recover(h)
	if deps.AllowedOrigin != "" {
		h = middleware.CORS(deps.AllowedOrigin)(h)
	}
	return h
}

// readsPublicMutationsGated serves GET/HEAD from public and everything else
// from gated. Catalog and order reads are anonymous; mutations are admin.
func readsPublicMutationsGated(public, gated http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			public.ServeHTTP(w, r)
			return
		}
		gated.ServeHTTP(w, r)
	})
}
