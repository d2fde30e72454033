// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidProduct = errors.New("product: invalid")
	ErrNotFound       = errors.New("product: not found")
)

// Product is a catalog entry.
// - docId = ID (Firestore)
type Product struct {
	ID          string    `json:"id" firestore:"id"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	Price       float64   `json:"price" firestore:"price"`
	Sizes       []string  `json:"sizes,omitempty" firestore:"sizes,omitempty"`
	Colors      []string  `json:"colors,omitempty" firestore:"colors,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	InStock     bool      `json:"inStock" firestore:"inStock"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// New validates and creates a product.
func New(id, name string, price float64, now time.Time) (*Product, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" || name == "" || price < 0 {
		return nil, ErrInvalidProduct
	}
	return &Product{
		ID:        id,
		Name:      name,
		Price:     price,
		InStock:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks invariants after a partial update.
func (p *Product) Validate() error {
	if p == nil || strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" || p.Price < 0 {
		return ErrInvalidProduct
	}
	return nil
}
