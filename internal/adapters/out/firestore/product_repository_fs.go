// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	proddom "boutique/internal/domain/product"
)

const defaultProductPageSize = 50

// ProductRepositoryFS implements product.Repository using Firestore.
//
// Collection design:
// - collection: products
// - docId: product id
type ProductRepositoryFS struct {
	Client *gfs.Client
}

func NewProductRepositoryFS(client *gfs.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection("products")
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (*proddom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, errors.New("product_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, proddom.ErrNotFound
		}
		return nil, err
	}

	var p proddom.Product
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	p.ID = pid
	return &p, nil
}

func (r *ProductRepositoryFS) List(ctx context.Context, limit int) ([]proddom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	if limit <= 0 {
		limit = defaultProductPageSize
	}

	iter := r.col().OrderBy("name", gfs.Asc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var out []proddom.Product
	for {
		doc, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, err
		}
		var p proddom.Product
		if err := doc.DataTo(&p); err != nil {
			return nil, err
		}
		p.ID = doc.Ref.ID
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepositoryFS) Create(ctx context.Context, p *proddom.Product) error {
	return r.set(ctx, p)
}

func (r *ProductRepositoryFS) Save(ctx context.Context, p *proddom.Product) error {
	return r.set(ctx, p)
}

func (r *ProductRepositoryFS) set(ctx context.Context, p *proddom.Product) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}
	if p == nil {
		return errors.New("product_repository_fs: product is nil")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.col().Doc(strings.TrimSpace(p.ID)).Set(ctx, p)
	return err
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return errors.New("product_repository_fs: id is empty")
	}
	_, err := r.col().Doc(pid).Delete(ctx)
	return err
}
