// internal/adapters/out/firestore/newsletter_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	nldom "boutique/internal/domain/newsletter"
)

// NewsletterRepositoryFS implements newsletter.Repository using Firestore.
//
// Collection design:
// - collection: newsletter_subscribers
// - docId: lowercased email (Set is naturally idempotent per email)
type NewsletterRepositoryFS struct {
	Client *gfs.Client
}

func NewNewsletterRepositoryFS(client *gfs.Client) *NewsletterRepositoryFS {
	return &NewsletterRepositoryFS{Client: client}
}

func (r *NewsletterRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection("newsletter_subscribers")
}

func (r *NewsletterRepositoryFS) Upsert(ctx context.Context, s *nldom.Subscriber) error {
	if r == nil || r.Client == nil {
		return errors.New("newsletter_repository_fs: firestore client is nil")
	}
	if s == nil || strings.TrimSpace(s.Email) == "" {
		return errors.New("newsletter_repository_fs: subscriber is nil or empty")
	}

	_, err := r.col().Doc(strings.ToLower(strings.TrimSpace(s.Email))).Set(ctx, s)
	return err
}

func (r *NewsletterRepositoryFS) Exists(ctx context.Context, email string) (bool, error) {
	if r == nil || r.Client == nil {
		return false, errors.New("newsletter_repository_fs: firestore client is nil")
	}

	id := strings.ToLower(strings.TrimSpace(email))
	if id == "" {
		return false, nil
	}

	_, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
