// internal/syncengine/wishlist_engine.go
package syncengine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	wldom "boutique/internal/domain/wishlist"
)

// WishlistEngine is the cart engine's simpler sibling: the payload is a set
// of product ids, so the merge rule is pure set union on the first remote
// callback after login, and outright replace afterwards (duplicate adds are
// idempotent, there is no quantity to lose).
type WishlistEngine struct {
	local  LocalStore
	remote wldom.Repository

	debounce time.Duration
	now      func() time.Time

	mu            sync.Mutex
	wl            *wldom.Wishlist
	uid           string
	lastSyncedUID string
	merged        bool
	timer         *time.Timer
	watchCancel   context.CancelFunc
	closed        bool

	syncMu    sync.Mutex
	isSyncing bool

	wg sync.WaitGroup
}

// NewWishlistEngine loads the persisted wishlist (empty when none) and
// returns an engine in the Anonymous state.
func NewWishlistEngine(local LocalStore, remote wldom.Repository, opts ...Option) (*WishlistEngine, error) {
	if local == nil {
		return nil, errors.New("syncengine: local store is nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	e := &WishlistEngine{
		local:    local,
		remote:   remote,
		debounce: DefaultDebounce,
		now:      time.Now,
	}
	if o.debounce > 0 {
		e.debounce = o.debounce
	}
	if o.now != nil {
		e.now = o.now
	}

	w, err := local.LoadWishlist()
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = wldom.New("", nil, e.now().UTC())
	}
	e.wl = w
	return e, nil
}

// Wishlist returns a snapshot of the in-memory wishlist.
func (e *WishlistEngine) Wishlist() *wldom.Wishlist {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wl.Clone()
}

// Toggle flips membership of a product, persists locally, and schedules a
// debounced remote push. Returns present-after state.
func (e *WishlistEngine) Toggle(productID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false, ErrEngineClosed
	}

	present := e.wl.Toggle(productID, e.now().UTC())
	if err := e.local.SaveWishlist(e.wl); err != nil {
		return present, err
	}
	e.scheduleSyncLocked()
	return present, nil
}

// OnLogin subscribes to the user's remote wishlist. The first callback is
// merged as a union (local ∪ remote); the merge flag then flips so later
// callbacks replace local state outright.
func (e *WishlistEngine) OnLogin(ctx context.Context, uid string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if uid == "" || e.lastSyncedUID == uid {
		e.mu.Unlock()
		return nil
	}
	e.uid = uid
	e.wl.UID = uid
	e.lastSyncedUID = uid
	e.merged = false
	hasLocal := !e.wl.IsEmpty()
	e.mu.Unlock()

	if hasLocal {
		// make sure local-only items reach the remote side even if the
		// first remote callback replaces instead of merging
		e.mu.Lock()
		e.scheduleSyncLocked()
		e.mu.Unlock()
	}

	e.startWatch(uid)
	return nil
}

// OnRemoteChange applies a remote snapshot: union on the first callback
// after login, replace afterwards. Ignored while a local write is in flight.
func (e *WishlistEngine) OnRemoteChange(remote *wldom.Wishlist) {
	if remote == nil {
		return
	}

	e.syncMu.Lock()
	syncing := e.isSyncing
	e.syncMu.Unlock()
	if syncing {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.uid == "" {
		return
	}

	if !e.merged {
		e.wl.Merge(remote, e.now().UTC())
		e.merged = true
	} else {
		e.wl.Replace(remote.Items, e.now().UTC())
	}
	if err := e.local.SaveWishlist(e.wl); err != nil {
		log.Printf("[WishlistEngine] local save failed uid=%s: %v", e.uid, err)
	}
}

// OnLogout tears down the subscription; the local wishlist stays on-device.
func (e *WishlistEngine) OnLogout() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	cancel := e.watchCancel
	e.watchCancel = nil
	e.uid = ""
	e.lastSyncedUID = ""
	e.merged = false
	e.wl.UID = ""
	if err := e.local.SaveWishlist(e.wl); err != nil {
		log.Printf("[WishlistEngine] local save failed on logout: %v", err)
	}
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

// Close cancels pending timers and the subscription.
func (e *WishlistEngine) Close() {
	e.mu.Lock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	cancel := e.watchCancel
	e.watchCancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

func (e *WishlistEngine) scheduleSyncLocked() {
	if e.remote == nil || e.uid == "" {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, e.flush)
}

func (e *WishlistEngine) flush() {
	e.syncMu.Lock()
	if e.isSyncing {
		e.syncMu.Unlock()
		return
	}
	e.isSyncing = true
	e.syncMu.Unlock()

	defer func() {
		e.syncMu.Lock()
		e.isSyncing = false
		e.syncMu.Unlock()
	}()

	e.mu.Lock()
	if e.closed || e.uid == "" {
		e.mu.Unlock()
		return
	}
	snap := e.wl.Clone()
	snap.UID = e.uid
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
	defer cancel()

	if err := e.remote.Upsert(ctx, snap); err != nil {
		log.Printf("[WishlistEngine] remote push failed uid=%s: %v", snap.UID, err)
	}
}

func (e *WishlistEngine) startWatch(uid string) {
	if e.remote == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		cancel()
		return
	}
	if e.watchCancel != nil {
		e.watchCancel()
	}
	e.watchCancel = cancel
	e.mu.Unlock()

	ch, err := e.remote.Watch(ctx, uid)
	if err != nil {
		log.Printf("[WishlistEngine] watch failed uid=%s: %v", uid, err)
		cancel()
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for remote := range ch {
			if remote == nil {
				continue
			}
			e.OnRemoteChange(remote)
		}
	}()
}
