// internal/domain/user/repository_port.go
package user

import "context"

// Repository is a persistence port for Profile.
//
// Storage (Firestore):
// - collection: users
// - docId: uid
//
// GetByUID must return ErrNotFound (not nil, nil) when the document is
// missing: callers gate authorization on the result and must not confuse
// "absent" with "customer".
type Repository interface {
	GetByUID(ctx context.Context, uid string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Save(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, uid string) error
}
