// internal/adapters/out/db/newsletter_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	nldom "boutique/internal/domain/newsletter"
)

// NewsletterRepositoryPG is the PostgreSQL implementation of
// newsletter.Repository, selected by the wiring policy when a SQL subscriber
// store is preferred over Firestore.
//
// Table:
//
//	CREATE TABLE newsletter_subscribers (
//	    email          TEXT PRIMARY KEY,
//	    source         TEXT NOT NULL DEFAULT '',
//	    subscribed_at  TIMESTAMPTZ NOT NULL
//	);
type NewsletterRepositoryPG struct {
	db *sql.DB
}

func NewNewsletterRepositoryPG(db *sql.DB) *NewsletterRepositoryPG {
	return &NewsletterRepositoryPG{db: db}
}

// Upsert inserts or refreshes a subscriber. Idempotent on email.
func (r *NewsletterRepositoryPG) Upsert(ctx context.Context, s *nldom.Subscriber) error {
	if r == nil || r.db == nil {
		return errors.New("newsletter_repository_pg: db is nil")
	}
	if s == nil || strings.TrimSpace(s.Email) == "" {
		return errors.New("newsletter_repository_pg: subscriber is nil or empty")
	}

	const q = `
		INSERT INTO newsletter_subscribers (email, source, subscribed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET source = EXCLUDED.source
	`
	_, err := r.db.ExecContext(ctx, q,
		strings.ToLower(strings.TrimSpace(s.Email)),
		s.Source,
		s.SubscribedAt,
	)
	return err
}

func (r *NewsletterRepositoryPG) Exists(ctx context.Context, email string) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("newsletter_repository_pg: db is nil")
	}

	id := strings.ToLower(strings.TrimSpace(email))
	if id == "" {
		return false, nil
	}

	const q = `SELECT 1 FROM newsletter_subscribers WHERE email = $1 LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
