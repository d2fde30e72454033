// internal/syncengine/localstore.go
package syncengine

import (
	cartdom "boutique/internal/domain/cart"
	wldom "boutique/internal/domain/wishlist"
)

// LocalStore is the device-local persisted state the engines treat as the
// source of truth when offline or before login. Loads return (nil, nil) when
// nothing has been saved yet.
type LocalStore interface {
	LoadCart() (*cartdom.Cart, error)
	SaveCart(c *cartdom.Cart) error

	LoadWishlist() (*wldom.Wishlist, error)
	SaveWishlist(w *wldom.Wishlist) error
}
