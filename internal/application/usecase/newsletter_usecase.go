// internal/application/usecase/newsletter_usecase.go
package usecase

import (
	"context"
	"log"

	nldom "boutique/internal/domain/newsletter"
)

// EmailClient is the outbound mail port (SendGrid in production).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// NewsletterUsecase handles signups. The repository write is authoritative;
// the welcome mail is best-effort and never fails the signup.
type NewsletterUsecase struct {
	repo  nldom.Repository
	mail  EmailClient
	from  string
	clock Clock
}

func NewNewsletterUsecase(repo nldom.Repository, mail EmailClient, from string) *NewsletterUsecase {
	return &NewsletterUsecase{repo: repo, mail: mail, from: from, clock: systemClock{}}
}

// NewNewsletterUsecaseWithClock is useful for tests.
func NewNewsletterUsecaseWithClock(repo nldom.Repository, mail EmailClient, from string, clock Clock) *NewsletterUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &NewsletterUsecase{repo: repo, mail: mail, from: from, clock: clock}
}

// Subscribe validates the email and upserts the subscriber. Returns
// ErrInvalidEmail for malformed input; duplicate signups succeed silently
// (the handler answers the same either way, so nothing leaks).
func (uc *NewsletterUsecase) Subscribe(ctx context.Context, email, source string) error {
	if uc == nil || uc.repo == nil {
		return nldom.ErrInvalidEmail
	}

	s, err := nldom.New(email, source, uc.clock.Now().UTC())
	if err != nil {
		return err
	}

	existed, err := uc.repo.Exists(ctx, s.Email)
	if err != nil {
		// existence check is an optimization only; proceed with the upsert
		log.Printf("[NewsletterUsecase] exists check failed: %v", err)
		existed = false
	}

	if err := uc.repo.Upsert(ctx, s); err != nil {
		return err
	}

	// welcome mail only on first signup, and only if a mail client is wired
	if !existed && uc.mail != nil && uc.from != "" {
		if err := uc.mail.Send(ctx, uc.from, s.Email,
			"Welcome to the newsletter",
			"Thanks for subscribing. New arrivals and promotions land here first.",
		); err != nil {
			log.Printf("[NewsletterUsecase] welcome mail failed (to=%s): %v", s.Email, err)
		}
	}
	return nil
}
