// internal/platform/di/container.go
package di

import (
	"context"
	"log"
	"net/http"

	httpin "boutique/internal/adapters/in/http"
	dbout "boutique/internal/adapters/out/db"
	fsout "boutique/internal/adapters/out/firestore"
	"boutique/internal/adapters/out/gcs"
	httpout "boutique/internal/adapters/out/http"
	"boutique/internal/adapters/out/identity"
	"boutique/internal/adapters/out/mail"
	usecase "boutique/internal/application/usecase"
	nldom "boutique/internal/domain/newsletter"
	appcfg "boutique/internal/infra/config"
	"boutique/internal/platform/di/shared"
	"boutique/internal/ratelimit"
)

// Container wires infra, repositories, usecases and the router.
// Build once in main; Close on shutdown.
type Container struct {
	Infra   *shared.Infra
	Limiter *ratelimit.Limiter
	Router  http.Handler
}

// NewContainer builds the whole dependency graph.
// Missing best-effort infra (Firebase Auth, GCS, Postgres, SendGrid) degrades
// its own feature set; everything else keeps serving.
func NewContainer(ctx context.Context, cfg *appcfg.Config) (*Container, error) {
	inf, err := shared.NewInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(0)

	// repositories
	cartRepo := fsout.NewCartRepositoryFS(inf.Firestore)
	userRepo := fsout.NewUserRepositoryFS(inf.Firestore)
	productRepo := fsout.NewProductRepositoryFS(inf.Firestore)
	orderRepo := fsout.NewOrderRepositoryFS(inf.Firestore)

	var newsletterRepo nldom.Repository = fsout.NewNewsletterRepositoryFS(inf.Firestore)
	if cfg.UsePostgresNewsletter() && inf.Postgres != nil {
		newsletterRepo = dbout.NewNewsletterRepositoryPG(inf.Postgres.Client)
		log.Printf("[di] newsletter backend: postgres")
	} else {
		log.Printf("[di] newsletter backend: firestore")
	}

	// outbound clients
	var imageStore usecase.ImageStore
	if inf.GCS != nil && inf.ProductImageBucket != "" {
		imageStore = gcs.NewProductImageRepositoryGCS(inf.GCS, inf.ProductImageBucket)
	} else {
		log.Printf("[di] WARN: product image upload disabled (no GCS client or bucket)")
	}

	var mailClient usecase.EmailClient
	if inf.SendGridAPIKey != "" {
		mailClient = mail.NewSendGridClient(inf.SendGridAPIKey)
	} else {
		log.Printf("[di] WARN: welcome mail disabled (no SendGrid key)")
	}

	// usecases
	accountUC := usecase.NewAccountUsecase(userRepo)
	productUC := usecase.NewProductUsecase(productRepo, imageStore)
	orderUC := usecase.NewOrderUsecase(orderRepo, cartRepo)
	newsletterUC := usecase.NewNewsletterUsecase(newsletterRepo, mailClient, cfg.NewsletterFrom)

	var sessionUC *usecase.SessionUsecase
	if inf.FirebaseAuth != nil {
		sessionUC = usecase.NewSessionUsecase(identity.NewFirebaseIdentityProvider(inf.FirebaseAuth))
	} else {
		log.Printf("[di] WARN: auth endpoints disabled (no Firebase Auth client)")
	}

	// provider stays nil when unconfigured; the handler answers 503
	paymentUC := usecase.NewPaymentUsecase(nil)
	if cfg.PaymentBaseURL != "" {
		paymentUC = usecase.NewPaymentUsecase(httpout.NewStripeIntentClient(cfg.PaymentBaseURL))
	} else {
		log.Printf("[di] WARN: payment provider not configured (PAYMENT_BASE_URL empty)")
	}

	router := httpin.NewRouter(httpin.RouterDeps{
		SessionUC:     sessionUC,
		AccountUC:     accountUC,
		ProductUC:     productUC,
		OrderUC:       orderUC,
		NewsletterUC:  newsletterUC,
		PaymentUC:     paymentUC,
		Limiter:       limiter,
		AllowedOrigin: cfg.AllowedOrigin,
		SecureCookies: cfg.IsProduction(),
	})

	return &Container{
		Infra:   inf,
		Limiter: limiter,
		Router:  router,
	}, nil
}

// Close releases clients and stops background work.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Limiter != nil {
		c.Limiter.Stop()
	}
	return c.Infra.Close()
}
