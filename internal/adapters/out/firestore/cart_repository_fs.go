// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "boutique/internal/domain/cart"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
// - collection: carts
// - docId: uid ✅ (docId is the source of truth)
// - fields: uid, items(array), couponCode, discount, updatedAt
type CartRepositoryFS struct {
	Client *gfs.Client
}

func NewCartRepositoryFS(client *gfs.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection("carts")
}

// GetByUID returns (nil, nil) if not found (nil policy).
func (r *CartRepositoryFS) GetByUID(ctx context.Context, uid string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("cart_repository_fs: uid is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	c, err := decodeCartSnapshot(snap)
	if err != nil {
		return nil, err
	}
	// ✅ docId is the source of truth even if the doc lacks a uid field
	c.UID = id
	return c, nil
}

// Upsert saves the cart by docId = c.UID as a full-document overwrite
// (simple & predictable; last write wins across devices).
func (r *CartRepositoryFS) Upsert(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil {
		return errors.New("cart_repository_fs: cart is nil")
	}

	id := strings.TrimSpace(c.UID)
	if id == "" {
		return errors.New("cart_repository_fs: Upsert requires cart.UID as docId")
	}

	_, err := r.col().Doc(id).Set(ctx, encodeCartDoc(c))
	return err
}

func (r *CartRepositoryFS) DeleteByUID(ctx context.Context, uid string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("cart_repository_fs: uid is empty")
	}

	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// Watch subscribes to the user's cart document via Firestore snapshots.
// The returned channel closes when ctx is cancelled or the stream ends.
// A nil element means the document was deleted remotely.
func (r *CartRepositoryFS) Watch(ctx context.Context, uid string) (<-chan *cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("cart_repository_fs: uid is empty")
	}

	out := make(chan *cartdom.Cart, 1)
	it := r.col().Doc(id).Snapshots(ctx)

	go func() {
		defer close(out)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				// ctx cancel lands here as well; just end the stream
				if status.Code(err) != codes.Canceled {
					log.Printf("[CartRepositoryFS] watch uid=%s ended: %v", id, err)
				}
				return
			}
			if !snap.Exists() {
				select {
				case out <- nil:
				case <-ctx.Done():
					return
				}
				continue
			}
			c, derr := decodeCartSnapshot(snap)
			if derr != nil {
				log.Printf("[CartRepositoryFS] watch uid=%s decode error: %v", id, derr)
				continue
			}
			c.UID = id
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

// NOTE: domain struct は直接 firestore DTO にしない（後方互換のため）
type cartDoc struct {
	UID        string        `firestore:"uid"`
	Items      []cartItemDoc `firestore:"items"`
	CouponCode string        `firestore:"couponCode,omitempty"`
	Discount   float64       `firestore:"discount"`
	UpdatedAt  time.Time     `firestore:"updatedAt"`
}

type cartItemDoc struct {
	ProductID string  `firestore:"productId"`
	Size      string  `firestore:"size"`
	Color     string  `firestore:"color"`
	Qty       int     `firestore:"qty"`
	UnitPrice float64 `firestore:"unitPrice"`
}

func encodeCartDoc(c *cartdom.Cart) cartDoc {
	items := make([]cartItemDoc, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, cartItemDoc{
			ProductID: it.ProductID,
			Size:      it.Size,
			Color:     it.Color,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}
	return cartDoc{
		UID:        c.UID,
		Items:      items,
		CouponCode: c.CouponCode,
		Discount:   c.Discount,
		UpdatedAt:  c.UpdatedAt,
	}
}

func decodeCartSnapshot(snap *gfs.DocumentSnapshot) (*cartdom.Cart, error) {
	if snap == nil {
		return nil, errors.New("cart_repository_fs: snapshot is nil")
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}

	items := make([]cartdom.Item, 0, len(doc.Items))
	for _, it := range doc.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Qty <= 0 {
			continue
		}
		items = append(items, cartdom.Item{
			ProductID: it.ProductID,
			Size:      it.Size,
			Color:     it.Color,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}

	c := cartdom.New(doc.UID, items, doc.UpdatedAt)
	c.CouponCode = strings.TrimSpace(doc.CouponCode)
	c.Discount = doc.Discount
	if c.Discount < 0 {
		c.Discount = 0
	}
	return c, nil
}
