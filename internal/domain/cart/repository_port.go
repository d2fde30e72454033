// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is a persistence port for Cart.
//
// Storage (Firestore):
// - collection: carts
// - docId: uid
// - fields: uid, items(array), couponCode, discount, updatedAt
//
// Writes are full-document overwrites (simple & predictable); convergence
// across devices comes from the merge rule in the entity, not from the store.
type Repository interface {
	// GetByUID returns the cart for the user.
	// Not-found policy: (nil, nil) — the application layer treats nil as
	// "empty cart".
	GetByUID(ctx context.Context, uid string) (*Cart, error)

	// Upsert saves the cart (create or update) under docId = c.UID.
	Upsert(ctx context.Context, c *Cart) error

	// DeleteByUID deletes the cart for the user (e.g. after an order).
	DeleteByUID(ctx context.Context, uid string) error

	// Watch subscribes to remote changes of the user's cart document.
	// The channel is closed when ctx is cancelled or the stream ends.
	// A nil element means the document was deleted.
	Watch(ctx context.Context, uid string) (<-chan *Cart, error)
}
