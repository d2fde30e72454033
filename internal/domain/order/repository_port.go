// internal/domain/order/repository_port.go
package order

import "context"

// Repository is a persistence port for Order.
//
// Storage (Firestore):
// - collection: orders
// - docId: order id
type Repository interface {
	// GetByID returns ErrNotFound when the order does not exist.
	GetByID(ctx context.Context, id string) (*Order, error)

	// ListByUID returns the user's orders, newest first.
	ListByUID(ctx context.Context, uid string, limit int) ([]Order, error)

	// List returns recent orders across users, newest first (admin view).
	List(ctx context.Context, limit int) ([]Order, error)

	Create(ctx context.Context, o *Order) error
	Save(ctx context.Context, o *Order) error
}
