// internal/domain/wishlist/entity.go
package wishlist

import (
	"sort"
	"strings"
	"time"
)

// Wishlist is a per-user set of product ids. Order is irrelevant; uniqueness
// is enforced. Duplicate adds are idempotent, so the remote side can be
// treated as authoritative after the initial login merge.
type Wishlist struct {
	// UID is the owning user id. Empty for a guest wishlist.
	UID string `json:"uid" firestore:"uid"`

	// Items is kept sorted for deterministic storage and comparison.
	Items []string `json:"items" firestore:"items"`

	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// New creates a wishlist. ids can be nil.
func New(uid string, ids []string, now time.Time) *Wishlist {
	return &Wishlist{
		UID:       strings.TrimSpace(uid),
		Items:     normalize(ids),
		UpdatedAt: now,
	}
}

// Toggle adds the product if absent, removes it if present.
// Returns true when the product is present after the call.
func (w *Wishlist) Toggle(productID string, now time.Time) bool {
	if w == nil {
		return false
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return false
	}

	if w.Contains(pid) {
		out := w.Items[:0]
		for _, id := range w.Items {
			if id != pid {
				out = append(out, id)
			}
		}
		w.Items = out
		w.touch(now)
		return false
	}

	w.Items = normalize(append(w.Items, pid))
	w.touch(now)
	return true
}

// Contains reports membership.
func (w *Wishlist) Contains(productID string) bool {
	if w == nil {
		return false
	}
	pid := strings.TrimSpace(productID)
	for _, id := range w.Items {
		if id == pid {
			return true
		}
	}
	return false
}

// Merge unions another wishlist's items into this one. Idempotent:
// merging the same remote twice equals merging it once.
func (w *Wishlist) Merge(other *Wishlist, now time.Time) {
	if w == nil || other == nil {
		return
	}
	w.Items = normalize(append(append([]string{}, w.Items...), other.Items...))
	w.touch(now)
}

// Replace overwrites the items outright (remote authoritative after the
// initial merge).
func (w *Wishlist) Replace(ids []string, now time.Time) {
	if w == nil {
		return
	}
	w.Items = normalize(ids)
	w.touch(now)
}

// IsEmpty reports whether the wishlist has no items.
func (w *Wishlist) IsEmpty() bool {
	return w == nil || len(w.Items) == 0
}

// Clone returns a deep copy.
func (w *Wishlist) Clone() *Wishlist {
	if w == nil {
		return nil
	}
	cp := *w
	cp.Items = append([]string{}, w.Items...)
	return &cp
}

func (w *Wishlist) touch(now time.Time) {
	w.UpdatedAt = now
}

// normalize trims, drops empties, dedups and sorts.
func normalize(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
