// internal/domain/wishlist/repository_port.go
package wishlist

import "context"

// Repository is a persistence port for Wishlist.
//
// Storage (Firestore):
// - collection: wishlists
// - docId: uid
// - fields: uid, items(array of productId), updatedAt
type Repository interface {
	// GetByUID returns (nil, nil) when the user has no wishlist document.
	GetByUID(ctx context.Context, uid string) (*Wishlist, error)

	// Upsert overwrites the document under docId = w.UID.
	Upsert(ctx context.Context, w *Wishlist) error

	// DeleteByUID removes the document.
	DeleteByUID(ctx context.Context, uid string) error

	// Watch subscribes to remote changes. Closed on ctx cancel; a nil
	// element means the document was deleted.
	Watch(ctx context.Context, uid string) (<-chan *Wishlist, error)
}
