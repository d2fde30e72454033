// internal/domain/product/repository_port.go
package product

import "context"

// Repository is a persistence port for Product.
//
// Storage (Firestore):
// - collection: products
// - docId: product id
type Repository interface {
	// GetByID returns ErrNotFound when the product does not exist.
	GetByID(ctx context.Context, id string) (*Product, error)

	// List returns up to limit products ordered by name. limit <= 0 means
	// the adapter default.
	List(ctx context.Context, limit int) ([]Product, error)

	Create(ctx context.Context, p *Product) error
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
