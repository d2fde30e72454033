// internal/adapters/out/localstore/filestore.go
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	cartdom "boutique/internal/domain/cart"
	wldom "boutique/internal/domain/wishlist"
)

// FileStore is the durable device-local key-value state (cart, wishlist and
// the onboarding-prompt flag). It survives restarts and is the source of
// truth when offline or before login.
//
// One JSON document per device; writes are atomic (temp file + rename) so a
// crash mid-write never corrupts the previous state.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileDoc struct {
	Cart           *cartdom.Cart   `json:"cart,omitempty"`
	Wishlist       *wldom.Wishlist `json:"wishlist,omitempty"`
	PromoDismissed bool            `json:"promoDismissed,omitempty"`
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("localstore: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("localstore: mkdir failed: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) LoadCart() (*cartdom.Cart, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Cart, nil
}

func (s *FileStore) SaveCart(c *cartdom.Cart) error {
	return s.update(func(doc *fileDoc) { doc.Cart = c })
}

func (s *FileStore) LoadWishlist() (*wldom.Wishlist, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Wishlist, nil
}

func (s *FileStore) SaveWishlist(w *wldom.Wishlist) error {
	return s.update(func(doc *fileDoc) { doc.Wishlist = w })
}

// PromoDismissed reports whether the onboarding promotional prompt has
// already been dismissed on this device.
func (s *FileStore) PromoDismissed() (bool, error) {
	doc, err := s.load()
	if err != nil {
		return false, err
	}
	return doc.PromoDismissed, nil
}

func (s *FileStore) SetPromoDismissed(v bool) error {
	return s.update(func(doc *fileDoc) { doc.PromoDismissed = v })
}

func (s *FileStore) load() (fileDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() (fileDoc, error) {
	var doc fileDoc

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("localstore: read failed: %w", err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("localstore: decode failed: %w", err)
	}
	return doc, nil
}

func (s *FileStore) update(apply func(doc *fileDoc)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}
	apply(&doc)

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: encode failed: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("localstore: write failed: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("localstore: rename failed: %w", err)
	}
	return nil
}
