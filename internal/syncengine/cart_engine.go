// internal/syncengine/cart_engine.go
package syncengine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	cartdom "boutique/internal/domain/cart"
)

// DefaultDebounce coalesces bursts of line-item edits into one remote write.
const DefaultDebounce = 500 * time.Millisecond

const remoteWriteTimeout = 10 * time.Second

var ErrEngineClosed = errors.New("syncengine: engine closed")

// CartEngine keeps the device-local cart and the user's remote cart document
// convergent without data loss across concurrent tabs/devices, while
// tolerating the remote store being unavailable.
//
// State machine (per device session):
//
//	Anonymous -(login)-> Reconciling -> Synced -(change)-> Synced
//	Synced -(logout)-> Anonymous
//
// Reconciling runs at most once per authenticated session (lastSyncedUID).
//
// The isSyncing flag is mutual exclusion against the engine's own echoed
// write only; it is not a lock against other devices.
type CartEngine struct {
	local  LocalStore
	remote cartdom.Repository

	debounce time.Duration
	now      func() time.Time

	mu            sync.Mutex
	cart          *cartdom.Cart
	uid           string
	lastSyncedUID string
	timer         *time.Timer
	watchCancel   context.CancelFunc
	closed        bool

	syncMu    sync.Mutex
	isSyncing bool

	wg sync.WaitGroup
}

// NewCartEngine loads the persisted cart (empty cart when none) and returns
// an engine in the Anonymous state.
func NewCartEngine(local LocalStore, remote cartdom.Repository, opts ...Option) (*CartEngine, error) {
	if local == nil {
		return nil, errors.New("syncengine: local store is nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	e := &CartEngine{
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

	c, err := local.LoadCart()
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = cartdom.New("", nil, e.now().UTC())
	}
	e.cart = c
	return e, nil
}

// options are shared between the cart and wishlist engines.
type options struct {
	debounce time.Duration
	now      func() time.Time
}

// Option tunes an engine (debounce interval, clock).
type Option func(*options)

func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Cart returns a snapshot of the in-memory cart.
func (e *CartEngine) Cart() *cartdom.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone()
}

// Apply runs a local mutation: the change is applied synchronously to the
// in-memory cart, persisted to the local store, and a debounced remote push
// is scheduled (OnLocalChange semantics).
func (e *CartEngine) Apply(mutate func(c *cartdom.Cart) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}

	if err := mutate(e.cart); err != nil {
		return err
	}
	if err := e.local.SaveCart(e.cart); err != nil {
		return err
	}

	e.scheduleSyncLocked()
	return nil
}

// OnLogin performs the once-per-login reconciliation:
//   - remote has items -> remote wins, merged into local under the
//     union-by-identity-key rule (nothing silently disappears)
//   - remote empty, local has items -> push local up
//
// then subscribes to remote change notifications.
func (e *CartEngine) OnLogin(ctx context.Context, uid string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if uid == "" || e.lastSyncedUID == uid {
		// already reconciled for this login session
		e.mu.Unlock()
		return nil
	}
	e.uid = uid
	e.cart.UID = uid
	e.lastSyncedUID = uid
	e.mu.Unlock()

	if e.remote != nil {
		remote, err := e.remote.GetByUID(ctx, uid)
		if err != nil {
			// remote unreachable: local stays authoritative and usable
			log.Printf("[CartEngine] login read failed uid=%s: %v", uid, err)
		} else {
			e.mu.Lock()
			if remote != nil && !remote.IsEmpty() {
				e.cart.MergeRemote(remote, e.now().UTC())
				if err := e.local.SaveCart(e.cart); err != nil {
					log.Printf("[CartEngine] local save failed uid=%s: %v", uid, err)
				}
			} else if !e.cart.IsEmpty() {
				// remote empty, local has items: push local up
				e.scheduleSyncLocked()
			}
			e.mu.Unlock()
		}
	}

	e.startWatch(uid)
	return nil
}

// OnRemoteChange merges a remote snapshot into local state. Ignored while a
// local→remote write is in flight so the engine does not react to the echo
// of its own write.
func (e *CartEngine) OnRemoteChange(remote *cartdom.Cart) {
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
	e.cart.MergeRemote(remote, e.now().UTC())
	if err := e.local.SaveCart(e.cart); err != nil {
		log.Printf("[CartEngine] local save failed uid=%s: %v", e.uid, err)
	}
}

// OnLogout tears down the remote subscription and clears the last-synced
// marker. The local cart is left untouched (guest cart persists on-device).
func (e *CartEngine) OnLogout() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	cancel := e.watchCancel
	e.watchCancel = nil
	e.uid = ""
	e.lastSyncedUID = ""
	e.cart.UID = ""
	if err := e.local.SaveCart(e.cart); err != nil {
		log.Printf("[CartEngine] local save failed on logout: %v", err)
	}
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

// Close cancels pending timers and the subscription. The engine cannot be
// reused afterwards.
func (e *CartEngine) Close() {
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

// scheduleSyncLocked (re)arms the debounce timer. Caller holds e.mu.
func (e *CartEngine) scheduleSyncLocked() {
	if e.remote == nil || e.uid == "" {
		// guest cart: nothing is mirrored remotely before login
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, e.flush)
}

// flush pushes the current cart to the remote store as one full-document
// overwrite. A write already in flight causes this trigger to be dropped,
// not queued; the next debounce cycle picks up the latest state.
func (e *CartEngine) flush() {
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
	snap := e.cart.Clone()
	snap.UID = e.uid
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
	defer cancel()

	if err := e.remote.Upsert(ctx, snap); err != nil {
		// logged and swallowed: availability over consistency for a
		// convenience feature; the next change retries naturally
		log.Printf("[CartEngine] remote push failed uid=%s: %v", snap.UID, err)
	}
}

// startWatch subscribes to the remote document and feeds changes into
// OnRemoteChange until logout/close.
func (e *CartEngine) startWatch(uid string) {
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
		log.Printf("[CartEngine] watch failed uid=%s: %v", uid, err)
		cancel()
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for remote := range ch {
			if remote == nil {
				// remote doc deleted (e.g. order placed on another device)
				continue
			}
			e.OnRemoteChange(remote)
		}
	}()
}
