package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "boutique/internal/domain/cart"
	orderdom "boutique/internal/domain/order"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type memOrderRepo struct {
	orders map[string]*orderdom.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*orderdom.Order)}
}

func (r *memOrderRepo) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, orderdom.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) ListByUID(ctx context.Context, uid string, limit int) ([]orderdom.Order, error) {
	var out []orderdom.Order
	for _, o := range r.orders {
		if o.UID == uid {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) List(ctx context.Context, limit int) ([]orderdom.Order, error) {
	var out []orderdom.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *memOrderRepo) Create(ctx context.Context, o *orderdom.Order) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) Save(ctx context.Context, o *orderdom.Order) error {
	return r.Create(ctx, o)
}

type memCartRepo struct {
	carts   map[string]*cartdom.Cart
	deletes int
	delErr  error
}

func newMemCartRepo() *memCartRepo { return &memCartRepo{carts: make(map[string]*cartdom.Cart)} }

func (r *memCartRepo) GetByUID(ctx context.Context, uid string) (*cartdom.Cart, error) {
	c, ok := r.carts[uid]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *memCartRepo) Upsert(ctx context.Context, c *cartdom.Cart) error {
	r.carts[c.UID] = c.Clone()
	return nil
}

func (r *memCartRepo) DeleteByUID(ctx context.Context, uid string) error {
	r.deletes++
	if r.delErr != nil {
		return r.delErr
	}
	delete(r.carts, uid)
	return nil
}

func (r *memCartRepo) Watch(ctx context.Context, uid string) (<-chan *cartdom.Cart, error) {
	ch := make(chan *cartdom.Cart)
	close(ch)
	return ch, nil
}

func testCart(t *testing.T, uid string) *cartdom.Cart {
	t.Helper()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return cartdom.New(uid, []cartdom.Item{
		{ProductID: "p1", Size: "M", Color: "red", Qty: 2, UnitPrice: 30},
	}, now)
}

func TestPlaceSnapshotsCartAndClearsRemote(t *testing.T) {
	orders := newMemOrderRepo()
	carts := newMemCartRepo()
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	uc := NewOrderUsecaseWithClock(orders, carts, fixedClock{now}, func() string { return "ord-1" })

	c := testCart(t, "u1")
	require.NoError(t, carts.Upsert(context.Background(), c))

	o, err := uc.Place(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, orderdom.StatusPending, o.Status)
	assert.InDelta(t, 60.0, o.Total, 0.001)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "p1", o.Lines[0].ProductID)

	// the remote cart is gone after placement
	got, err := carts.GetByUID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPlaceSucceedsEvenWhenCartClearFails(t *testing.T) {
	orders := newMemOrderRepo()
	carts := newMemCartRepo()
	carts.delErr = errors.New("firestore down")
	uc := NewOrderUsecaseWithClock(orders, carts, nil, nil)

	o, err := uc.Place(context.Background(), testCart(t, "u1"))
	require.NoError(t, err, "cart cleanup is best-effort")
	require.NotNil(t, o)
	assert.Equal(t, 1, carts.deletes)
}

func TestPlaceRejectsEmptyOrGuestCart(t *testing.T) {
	uc := NewOrderUsecase(newMemOrderRepo(), newMemCartRepo())
	now := time.Now().UTC()

	_, err := uc.Place(context.Background(), cartdom.New("u1", nil, now))
	assert.ErrorIs(t, err, ErrOrderInvalidArgument)

	_, err = uc.Place(context.Background(), testCart(t, ""))
	assert.ErrorIs(t, err, ErrOrderInvalidArgument)
}

func TestUpdateStatusValidatesTransitionTarget(t *testing.T) {
	orders := newMemOrderRepo()
	uc := NewOrderUsecaseWithClock(orders, newMemCartRepo(), nil, func() string { return "ord-2" })

	o, err := uc.Place(context.Background(), testCart(t, "u1"))
	require.NoError(t, err)

	got, err := uc.UpdateStatus(context.Background(), o.ID, orderdom.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusPaid, got.Status)

	_, err = uc.UpdateStatus(context.Background(), o.ID, "refunded")
	assert.Error(t, err)

	_, err = uc.UpdateStatus(context.Background(), "missing", orderdom.StatusPaid)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
