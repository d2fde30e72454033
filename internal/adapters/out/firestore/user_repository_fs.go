// internal/adapters/out/firestore/user_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	userdom "boutique/internal/domain/user"
)

// UserRepositoryFS implements user.Repository using Firestore.
//
// Collection design:
// - collection: users
// - docId: uid
//
// Older documents (schemaVersion < current) are migrated in one explicit step
// on read (repairProfileDoc) rather than patched field by field at call sites.
type UserRepositoryFS struct {
	Client *gfs.Client
}

func NewUserRepositoryFS(client *gfs.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

func (r *UserRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection("users")
}

// GetByUID returns user.ErrNotFound when the document is missing.
// Callers gate authorization on the result, so "absent" must stay distinct
// from "customer".
func (r *UserRepositoryFS) GetByUID(ctx context.Context, uid string) (*userdom.Profile, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("user_repository_fs: uid is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, userdom.ErrNotFound
		}
		return nil, err
	}

	p := repairProfileDoc(snap.Data(), id, time.Now().UTC())
	return p, nil
}

func (r *UserRepositoryFS) Create(ctx context.Context, p *userdom.Profile) error {
	return r.set(ctx, p)
}

func (r *UserRepositoryFS) Save(ctx context.Context, p *userdom.Profile) error {
	return r.set(ctx, p)
}

func (r *UserRepositoryFS) set(ctx context.Context, p *userdom.Profile) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	if p == nil {
		return errors.New("user_repository_fs: profile is nil")
	}
	id := strings.TrimSpace(p.UID)
	if id == "" {
		return errors.New("user_repository_fs: profile.UID is empty")
	}
	_, err := r.col().Doc(id).Set(ctx, p)
	return err
}

func (r *UserRepositoryFS) Delete(ctx context.Context, uid string) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("user_repository_fs: uid is empty")
	}
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// repairProfileDoc parses raw document data with explicit schema migration:
//   - v0 (no schemaVersion): may lack role and timestamps
//   - v1: role present, displayName may be missing
//   - v2 (current): all fields present
//
// Missing role defaults to customer, never admin.
func repairProfileDoc(raw map[string]any, uid string, now time.Time) *userdom.Profile {
	p := &userdom.Profile{
		UID:           uid,
		Role:          userdom.RoleCustomer,
		SchemaVersion: userdom.CurrentSchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if raw == nil {
		return p
	}

	if v, ok := raw["email"].(string); ok {
		p.Email = strings.TrimSpace(v)
	}
	if v, ok := raw["displayName"].(string); ok {
		p.DisplayName = strings.TrimSpace(v)
	}
	if v, ok := raw["role"].(string); ok && strings.TrimSpace(v) != "" {
		p.Role = strings.TrimSpace(v)
	}
	if v, ok := raw["createdAt"].(time.Time); ok && !v.IsZero() {
		p.CreatedAt = v
	}
	if v, ok := raw["updatedAt"].(time.Time); ok && !v.IsZero() {
		p.UpdatedAt = v
	}
	return p
}
