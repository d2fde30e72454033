package syncengine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "boutique/internal/domain/cart"
	wldom "boutique/internal/domain/wishlist"
)

// ---- fakes ----

type memLocalStore struct {
	mu sync.Mutex
	c  *cartdom.Cart
	w  *wldom.Wishlist
}

func (s *memLocalStore) LoadCart() (*cartdom.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil {
		return nil, nil
	}
	return s.c.Clone(), nil
}

func (s *memLocalStore) SaveCart(c *cartdom.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = c.Clone()
	return nil
}

func (s *memLocalStore) LoadWishlist() (*wldom.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil, nil
	}
	return s.w.Clone(), nil
}

func (s *memLocalStore) SaveWishlist(w *wldom.Wishlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w.Clone()
	return nil
}

type fakeCartRepo struct {
	mu      sync.Mutex
	remote  *cartdom.Cart
	upserts int
	reads   int

	// when set, Upsert blocks until released (to hold isSyncing high)
	hold chan struct{}
	// signalled once per Upsert entry
	started chan struct{}

	watch chan *cartdom.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{watch: make(chan *cartdom.Cart, 4)}
}

func (r *fakeCartRepo) GetByUID(ctx context.Context, uid string) (*cartdom.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.remote == nil {
		return nil, nil
	}
	return r.remote.Clone(), nil
}

func (r *fakeCartRepo) Upsert(ctx context.Context, c *cartdom.Cart) error {
	r.mu.Lock()
	started := r.started
	hold := r.hold
	r.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if hold != nil {
		<-hold
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.remote = c.Clone()
	return nil
}

func (r *fakeCartRepo) DeleteByUID(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remote = nil
	return nil
}

func (r *fakeCartRepo) Watch(ctx context.Context, uid string) (<-chan *cartdom.Cart, error) {
	out := make(chan *cartdom.Cart)
	go func() {
		defer close(out)
		for {
			select {
			case c, ok := <-r.watch:
				if !ok {
					return
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (r *fakeCartRepo) upsertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts
}

func (r *fakeCartRepo) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func addItem(t *testing.T, e *CartEngine, pid, size, color string, qty int, price float64) {
	t.Helper()
	require.NoError(t, e.Apply(func(c *cartdom.Cart) error {
		return c.Add(cartdom.Item{ProductID: pid, Size: size, Color: color, Qty: qty, UnitPrice: price}, time.Now().UTC())
	}))
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting: %s", msg)
}

// ---- tests ----

func TestDebounceCoalescesBurstIntoOneWrite(t *testing.T) {
	repo := newFakeCartRepo()
	e, err := NewCartEngine(&memLocalStore{}, repo, WithDebounce(40*time.Millisecond))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.OnLogin(context.Background(), "u1"))

	for i := 0; i < 5; i++ {
		addItem(t, e, "p1", "M", "red", 1, 10)
		time.Sleep(2 * time.Millisecond)
	}

	waitFor(t, func() bool { return repo.upsertCount() >= 1 }, "debounced push")
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, repo.upsertCount(), "burst must coalesce into one remote write")
}

func TestGuestMutationsAreNotMirroredRemotely(t *testing.T) {
	repo := newFakeCartRepo()
	e, err := NewCartEngine(&memLocalStore{}, repo, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer e.Close()

	addItem(t, e, "p1", "M", "red", 1, 10)
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, repo.upsertCount())
}

func TestLoginWithEmptyRemotePushesLocalUp(t *testing.T) {
	repo := newFakeCartRepo()
	local := &memLocalStore{}
	e, err := NewCartEngine(local, repo, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer e.Close()

	// logged out: add product P (size M, color red, qty 1)
	addItem(t, e, "P", "M", "red", 1, 10)

	require.NoError(t, e.OnLogin(context.Background(), "u1"))

	waitFor(t, func() bool { return repo.upsertCount() >= 1 }, "local pushed to remote")

	got := e.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, "P", got.Items[0].ProductID)

	repo.mu.Lock()
	remote := repo.remote.Clone()
	repo.mu.Unlock()
	require.NotNil(t, remote)
	require.Len(t, remote.Items, 1, "cart must now also be present remotely")
	assert.Equal(t, "u1", remote.UID)
}

func TestLoginWithRemoteItemsMergesRemoteWins(t *testing.T) {
	repo := newFakeCartRepo()
	repo.remote = cartdom.New("u1", []cartdom.Item{
		{ProductID: "p1", Size: "M", Color: "red", Qty: 5, UnitPrice: 10},
	}, time.Now().UTC())

	local := &memLocalStore{}
	e, err := NewCartEngine(local, repo, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer e.Close()

	addItem(t, e, "p1", "M", "red", 1, 10) // same key, remote qty must win
	addItem(t, e, "p2", "S", "blue", 2, 20)

	require.NoError(t, e.OnLogin(context.Background(), "u1"))

	got := e.Cart()
	require.Len(t, got.Items, 2)
	for _, it := range got.Items {
		switch it.ProductID {
		case "p1":
			assert.Equal(t, 5, it.Qty, "remote wins for shared identity key")
		case "p2":
			assert.Equal(t, 2, it.Qty, "local-only line survives")
		}
	}
}

func TestReconciliationRunsAtMostOncePerLogin(t *testing.T) {
	repo := newFakeCartRepo()
	e, err := NewCartEngine(&memLocalStore{}, repo, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.OnLogin(context.Background(), "u1"))
	require.NoError(t, e.OnLogin(context.Background(), "u1"))
	require.NoError(t, e.OnLogin(context.Background(), "u1"))

	assert.Equal(t, 1, repo.readCount(), "merge storm on re-render must not happen")
}

func TestRemoteChangeFromOtherDeviceMergesIn(t *testing.T) {
	repo := newFakeCartRepo()
	local := &memLocalStore{}
	e, err := NewCartEngine(local, repo, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer e.Close()

	addItem(t, e, "P1", "", "", 1, 10)
	require.NoError(t, e.OnLogin(context.Background(), "uA"))
	waitFor(t, func() bool { return repo.upsertCount() >= 1 }, "initial push")

	// device B adds P2
	remote := cartdom.New("uA", []cartdom.Item{
		{ProductID: "P1", Qty: 1, UnitPrice: 10},
		{ProductID: "P2", Qty: 1, UnitPrice: 15},
	}, time.Now().UTC())
	repo.watch <- remote

	waitFor(t, func() bool { return len(e.Cart().Items) == 2 }, "remote change merged")

	ids := []string{e.Cart().Items[0].ProductID, e.Cart().Items[1].ProductID}
	assert.ElementsMatch(t, []string{"P1", "P2"}, ids)
}

func TestSelfEchoSuppressedWhileWriteInFlight(t *testing.T) {
	repo := newFakeCartRepo()
	repo.hold = make(chan struct{})
	repo.started = make(chan struct{}, 1)

	e, err := NewCartEngine(&memLocalStore{}, repo, WithDebounce(5*time.Millisecond))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.OnLogin(context.Background(), "u1"))
	addItem(t, e, "p1", "M", "red", 1, 10)

	// wait until the push is in flight (isSyncing == true)
	<-repo.started

	// a notification arriving now must not overwrite local state
	echo := cartdom.New("u1", []cartdom.Item{
		{ProductID: "zz", Qty: 9, UnitPrice: 1},
	}, time.Now().UTC())
	e.OnRemoteChange(echo)

	got := e.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p1", got.Items[0].ProductID)

	close(repo.hold)
	waitFor(t, func() bool { return repo.upsertCount() >= 1 }, "write completes")

	// once the write has drained, remote changes apply again
	e.OnRemoteChange(echo)
	assert.Len(t, e.Cart().Items, 2)
}

func TestLogoutKeepsGuestCartAndStopsSync(t *testing.T) {
	repo := newFakeCartRepo()
	local := &memLocalStore{}
	e, err := NewCartEngine(local, repo, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer e.Close()

	addItem(t, e, "p1", "M", "red", 1, 10)
	require.NoError(t, e.OnLogin(context.Background(), "u1"))
	waitFor(t, func() bool { return repo.upsertCount() >= 1 }, "push before logout")

	e.OnLogout()

	// local cart untouched, uid detached
	got := e.Cart()
	require.Len(t, got.Items, 1)
	assert.Empty(t, got.UID)

	// a remote change after logout is ignored
	e.OnRemoteChange(cartdom.New("u1", []cartdom.Item{
		{ProductID: "late", Qty: 1, UnitPrice: 1},
	}, time.Now().UTC()))
	assert.Len(t, e.Cart().Items, 1)

	// a fresh login for the same user reconciles again
	require.NoError(t, e.OnLogin(context.Background(), "u1"))
	assert.Equal(t, 2, repo.readCount())
}
