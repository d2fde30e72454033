// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
	ErrInvalidItem = errors.New("cart: invalid item")
)

// Item represents "one line item" in a cart.
// Two lines are the same line iff (productId, size, color) match — the same
// product in another size or color is a distinct line.
type Item struct {
	ProductID string  `json:"productId" firestore:"productId"`
	Size      string  `json:"size" firestore:"size"`
	Color     string  `json:"color" firestore:"color"`
	Qty       int     `json:"qty" firestore:"qty"`
	UnitPrice float64 `json:"unitPrice" firestore:"unitPrice"`
}

// Key returns the identity key of the line.
func (it Item) Key() Key {
	return Key{
		ProductID: strings.TrimSpace(it.ProductID),
		Size:      strings.TrimSpace(it.Size),
		Color:     strings.TrimSpace(it.Color),
	}
}

// Key is the line identity (productId, size, color).
type Key struct {
	ProductID string
	Size      string
	Color     string
}

// Cart represents "a cart document".
//   - docId = uid (Firestore, once mirrored remotely)
//   - Items: []Item, unique by identity key
//   - UpdatedAt: refreshed on each mutation (last write wins remotely)
type Cart struct {
	// UID is the owning user id. Empty for a guest cart that only lives
	// on-device.
	UID string `json:"uid" firestore:"uid"`

	Items      []Item  `json:"items" firestore:"items"`
	CouponCode string  `json:"couponCode,omitempty" firestore:"couponCode,omitempty"`
	Discount   float64 `json:"discount" firestore:"discount"`

	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// New creates a cart. items can be nil (treated as empty).
func New(uid string, items []Item, now time.Time) *Cart {
	return &Cart{
		UID:       strings.TrimSpace(uid),
		Items:     cloneItems(items),
		UpdatedAt: now,
	}
}

// Add increases quantity for an identity key. qty must be >= 1.
func (c *Cart) Add(it Item, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	k := it.Key()
	if k.ProductID == "" || it.Qty <= 0 || it.UnitPrice < 0 {
		return ErrInvalidItem
	}

	idx := findIndex(c.Items, k)
	if idx >= 0 {
		c.Items[idx].Qty += it.Qty
		c.Items[idx].UnitPrice = it.UnitPrice
	} else {
		c.Items = append(c.Items, Item{
			ProductID: k.ProductID,
			Size:      k.Size,
			Color:     k.Color,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}

	c.touch(now)
	return c.validate()
}

// SetQty sets quantity for an identity key. qty <= 0 removes the line.
func (c *Cart) SetQty(k Key, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(k.ProductID) == "" {
		return ErrInvalidItem
	}

	idx := findIndex(c.Items, k)

	if qty <= 0 {
		if idx >= 0 {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		}
		c.touch(now)
		return c.validate()
	}

	if idx >= 0 {
		c.Items[idx].Qty = qty
	} else {
		c.Items = append(c.Items, Item{
			ProductID: strings.TrimSpace(k.ProductID),
			Size:      strings.TrimSpace(k.Size),
			Color:     strings.TrimSpace(k.Color),
			Qty:       qty,
		})
	}

	c.touch(now)
	return c.validate()
}

// Remove removes an identity key from the cart.
func (c *Cart) Remove(k Key, now time.Time) error {
	return c.SetQty(k, 0, now)
}

// ApplyCoupon records a coupon code and its resolved discount amount.
func (c *Cart) ApplyCoupon(code string, discount float64, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	code = strings.TrimSpace(code)
	if code == "" || discount < 0 {
		return ErrInvalidCart
	}
	c.CouponCode = code
	c.Discount = discount
	c.touch(now)
	return nil
}

// ClearCoupon drops the coupon and discount.
func (c *Cart) ClearCoupon(now time.Time) {
	if c == nil {
		return
	}
	c.CouponCode = ""
	c.Discount = 0
	c.touch(now)
}

// Clear empties the cart (order placement). Returns a snapshot of the lines
// that were consumed.
func (c *Cart) Clear(now time.Time) []Item {
	if c == nil {
		return nil
	}
	snap := cloneItems(c.Items)
	c.Items = []Item{}
	c.CouponCode = ""
	c.Discount = 0
	c.touch(now)
	return snap
}

// MergeRemote reconciles this (local) cart with a remote snapshot:
//   - remote lines always overwrite local lines with the same identity key
//   - local-only lines are kept (nothing silently disappears)
//   - when remote has any lines, its coupon/discount are adopted
//
// The rule is commutative enough for two devices writing without a
// coordinator. A concurrent delete on one device can be resurrected by a
// concurrent add-merge from another; that is the documented behavior and is
// kept as-is (no tombstones).
func (c *Cart) MergeRemote(remote *Cart, now time.Time) {
	if c == nil || remote == nil {
		return
	}

	merged := cloneItems(remote.Items)
	seen := map[Key]bool{}
	for _, it := range merged {
		seen[it.Key()] = true
	}
	for _, it := range c.Items {
		if !seen[it.Key()] {
			merged = append(merged, it)
		}
	}
	c.Items = normalizeAndMerge(merged)

	if len(remote.Items) > 0 {
		c.CouponCode = remote.CouponCode
		c.Discount = remote.Discount
	}
	c.touch(now)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Total returns the payable total (sum of lines minus discount, floored at 0).
func (c *Cart) Total() float64 {
	if c == nil {
		return 0
	}
	sum := 0.0
	for _, it := range c.Items {
		sum += float64(it.Qty) * it.UnitPrice
	}
	sum -= c.Discount
	if sum < 0 {
		return 0
	}
	return sum
}

// Clone returns a deep copy (engines hand carts across goroutines).
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = make([]Item, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if len(c.Items) == 0 {
		return nil
	}

	// normalize + merge duplicates + stable order
	c.Items = normalizeAndMerge(c.Items)

	for _, it := range c.Items {
		if it.Key().ProductID == "" || it.Qty <= 0 || it.UnitPrice < 0 {
			return ErrInvalidItem
		}
	}
	return nil
}

// ----------------------------
// Helpers
// ----------------------------

func findIndex(items []Item, k Key) int {
	for i := range items {
		if items[i].Key() == k {
			return i
		}
	}
	return -1
}

func normalizeAndMerge(src []Item) []Item {
	m := map[Key]Item{}

	for _, it := range src {
		k := it.Key()
		if k.ProductID == "" || it.Qty <= 0 {
			continue
		}
		if exist, ok := m[k]; ok {
			exist.Qty += it.Qty
			if it.UnitPrice > 0 {
				exist.UnitPrice = it.UnitPrice
			}
			m[k] = exist
		} else {
			m[k] = Item{
				ProductID: k.ProductID,
				Size:      k.Size,
				Color:     k.Color,
				Qty:       it.Qty,
				UnitPrice: it.UnitPrice,
			}
		}
	}

	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ProductID != keys[j].ProductID {
			return keys[i].ProductID < keys[j].ProductID
		}
		if keys[i].Size != keys[j].Size {
			return keys[i].Size < keys[j].Size
		}
		return keys[i].Color < keys[j].Color
	})

	out := make([]Item, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func cloneItems(src []Item) []Item {
	if len(src) == 0 {
		return []Item{}
	}
	cp := make([]Item, len(src))
	copy(cp, src)
	return normalizeAndMerge(cp)
}
