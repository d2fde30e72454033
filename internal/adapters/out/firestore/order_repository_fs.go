// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "boutique/internal/domain/order"
)

const defaultOrderPageSize = 50

// OrderRepositoryFS implements order.Repository using Firestore.
//
// Collection design:
// - collection: orders
// - docId: order id
type OrderRepositoryFS struct {
	Client *gfs.Client
}

func NewOrderRepositoryFS(client *gfs.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection("orders")
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}

	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, errors.New("order_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(oid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, orderdom.ErrNotFound
		}
		return nil, err
	}

	var o orderdom.Order
	if err := snap.DataTo(&o); err != nil {
		return nil, err
	}
	o.ID = oid
	return &o, nil
}

func (r *OrderRepositoryFS) ListByUID(ctx context.Context, uid string, limit int) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("order_repository_fs: uid is empty")
	}
	if limit <= 0 {
		limit = defaultOrderPageSize
	}

	q := r.col().Where("uid", "==", id).
		OrderBy("createdAt", gfs.Desc).
		Limit(limit)
	return collectOrders(ctx, q)
}

func (r *OrderRepositoryFS) List(ctx context.Context, limit int) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	if limit <= 0 {
		limit = defaultOrderPageSize
	}

	q := r.col().OrderBy("createdAt", gfs.Desc).Limit(limit)
	return collectOrders(ctx, q)
}

func collectOrders(ctx context.Context, q gfs.Query) ([]orderdom.Order, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []orderdom.Order
	for {
		doc, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, err
		}
		var o orderdom.Order
		if err := doc.DataTo(&o); err != nil {
			return nil, err
		}
		o.ID = doc.Ref.ID
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepositoryFS) Create(ctx context.Context, o *orderdom.Order) error {
	return r.set(ctx, o)
}

func (r *OrderRepositoryFS) Save(ctx context.Context, o *orderdom.Order) error {
	return r.set(ctx, o)
}

func (r *OrderRepositoryFS) set(ctx context.Context, o *orderdom.Order) error {
	if r == nil || r.Client == nil {
		return errors.New("order_repository_fs: firestore client is nil")
	}
	if o == nil {
		return errors.New("order_repository_fs: order is nil")
	}
	id := strings.TrimSpace(o.ID)
	if id == "" {
		return errors.New("order_repository_fs: order.ID is empty")
	}
	_, err := r.col().Doc(id).Set(ctx, o)
	return err
}
