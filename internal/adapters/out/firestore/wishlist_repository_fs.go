// internal/adapters/out/firestore/wishlist_repository_fs.go
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

	wldom "boutique/internal/domain/wishlist"
)

// WishlistRepositoryFS implements wishlist.Repository using Firestore.
//
// Collection design:
// - collection: wishlists
// - docId: uid
// - fields: uid, items(array of productId), updatedAt
type WishlistRepositoryFS struct {
	Client *gfs.Client
}

func NewWishlistRepositoryFS(client *gfs.Client) *WishlistRepositoryFS {
	return &WishlistRepositoryFS{Client: client}
}

func (r *WishlistRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection("wishlists")
}

type wishlistDoc struct {
	UID       string    `firestore:"uid"`
	Items     []string  `firestore:"items"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// GetByUID returns (nil, nil) if not found (nil policy).
func (r *WishlistRepositoryFS) GetByUID(ctx context.Context, uid string) (*wldom.Wishlist, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("wishlist_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("wishlist_repository_fs: uid is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	w, err := decodeWishlistSnapshot(snap)
	if err != nil {
		return nil, err
	}
	w.UID = id
	return w, nil
}

// Upsert overwrites the document under docId = w.UID.
func (r *WishlistRepositoryFS) Upsert(ctx context.Context, w *wldom.Wishlist) error {
	if r == nil || r.Client == nil {
		return errors.New("wishlist_repository_fs: firestore client is nil")
	}
	if w == nil {
		return errors.New("wishlist_repository_fs: wishlist is nil")
	}

	id := strings.TrimSpace(w.UID)
	if id == "" {
		return errors.New("wishlist_repository_fs: Upsert requires wishlist.UID as docId")
	}

	_, err := r.col().Doc(id).Set(ctx, wishlistDoc{
		UID:       id,
		Items:     w.Items,
		UpdatedAt: w.UpdatedAt,
	})
	return err
}

func (r *WishlistRepositoryFS) DeleteByUID(ctx context.Context, uid string) error {
	if r == nil || r.Client == nil {
		return errors.New("wishlist_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("wishlist_repository_fs: uid is empty")
	}

	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// Watch subscribes to the user's wishlist document via Firestore snapshots.
func (r *WishlistRepositoryFS) Watch(ctx context.Context, uid string) (<-chan *wldom.Wishlist, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("wishlist_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("wishlist_repository_fs: uid is empty")
	}

	out := make(chan *wldom.Wishlist, 1)
	it := r.col().Doc(id).Snapshots(ctx)

	go func() {
		defer close(out)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("[WishlistRepositoryFS] watch uid=%s ended: %v", id, err)
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
			w, derr := decodeWishlistSnapshot(snap)
			if derr != nil {
				log.Printf("[WishlistRepositoryFS] watch uid=%s decode error: %v", id, derr)
				continue
			}
			w.UID = id
			select {
			case out <- w:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func decodeWishlistSnapshot(snap *gfs.DocumentSnapshot) (*wldom.Wishlist, error) {
	if snap == nil {
		return nil, errors.New("wishlist_repository_fs: snapshot is nil")
	}
	var doc wishlistDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return wldom.New(doc.UID, doc.Items, doc.UpdatedAt), nil
}
