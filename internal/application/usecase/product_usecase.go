// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	proddom "boutique/internal/domain/product"
)

var (
	ErrProductInvalidArgument = errors.New("product_usecase: invalid argument")
	ErrProductNotFound        = errors.New("product_usecase: not found")
)

// ImageStore is the outbound port for product image blobs (GCS in
// production). Upload returns the public URL of the stored object.
type ImageStore interface {
	Upload(ctx context.Context, productID, fileName, contentType string, body io.Reader) (string, error)
}

// ProductUsecase coordinates catalog reads and admin mutations.
type ProductUsecase struct {
	repo   proddom.Repository
	images ImageStore
	clock  Clock
}

func NewProductUsecase(repo proddom.Repository, images ImageStore) *ProductUsecase {
	return &ProductUsecase{repo: repo, images: images, clock: systemClock{}}
}

// NewProductUsecaseWithClock is useful for tests.
func NewProductUsecaseWithClock(repo proddom.Repository, images ImageStore, clock Clock) *ProductUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &ProductUsecase{repo: repo, images: images, clock: clock}
}

// Get returns one product.
func (uc *ProductUsecase) Get(ctx context.Context, id string) (*proddom.Product, error) {
	if uc == nil || uc.repo == nil {
		return nil, ErrProductInvalidArgument
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, ErrProductInvalidArgument
	}
	p, err := uc.repo.GetByID(ctx, pid)
	if errors.Is(err, proddom.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// List returns up to limit products.
func (uc *ProductUsecase) List(ctx context.Context, limit int) ([]proddom.Product, error) {
	if uc == nil || uc.repo == nil {
		return nil, ErrProductInvalidArgument
	}
	return uc.repo.List(ctx, limit)
}

// Create adds a catalog entry (admin).
func (uc *ProductUsecase) Create(ctx context.Context, p *proddom.Product) (*proddom.Product, error) {
	if uc == nil || uc.repo == nil || p == nil {
		return nil, ErrProductInvalidArgument
	}
	now := uc.clock.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces a catalog entry (admin). The id in the path wins over any
// id in the body.
func (uc *ProductUsecase) Update(ctx context.Context, id string, p *proddom.Product) (*proddom.Product, error) {
	if uc == nil || uc.repo == nil || p == nil {
		return nil, ErrProductInvalidArgument
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, ErrProductInvalidArgument
	}

	existing, err := uc.repo.GetByID(ctx, pid)
	if errors.Is(err, proddom.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	p.ID = pid
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = uc.clock.Now().UTC()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a catalog entry (admin). Deleting an absent product is not
// an error.
func (uc *ProductUsecase) Delete(ctx context.Context, id string) error {
	if uc == nil || uc.repo == nil {
		return ErrProductInvalidArgument
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return ErrProductInvalidArgument
	}
	return uc.repo.Delete(ctx, pid)
}

// AttachImage uploads an image blob and records its URL on the product.
func (uc *ProductUsecase) AttachImage(ctx context.Context, id, fileName, contentType string, body io.Reader) (*proddom.Product, error) {
	if uc == nil || uc.repo == nil || uc.images == nil {
		return nil, ErrProductInvalidArgument
	}

	p, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := uc.images.Upload(ctx, p.ID, fileName, contentType, body)
	if err != nil {
		return nil, err
	}

	p.ImageURL = url
	p.UpdatedAt = uc.clock.Now().UTC()
	if err := uc.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
