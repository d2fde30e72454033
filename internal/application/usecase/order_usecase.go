// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	cartdom "boutique/internal/domain/cart"
	orderdom "boutique/internal/domain/order"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
	ErrOrderNotFound        = errors.New("order_usecase: not found")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// OrderUsecase coordinates order placement and lookup.
type OrderUsecase struct {
	orders orderdom.Repository
	carts  cartdom.Repository
	clock  Clock
	newID  func() string
}

func NewOrderUsecase(orders orderdom.Repository, carts cartdom.Repository) *OrderUsecase {
	return &OrderUsecase{
		orders: orders,
		carts:  carts,
		clock:  systemClock{},
		newID:  uuid.NewString,
	}
}

// NewOrderUsecaseWithClock is useful for tests.
func NewOrderUsecaseWithClock(orders orderdom.Repository, carts cartdom.Repository, clock Clock, newID func() string) *OrderUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &OrderUsecase{orders: orders, carts: carts, clock: clock, newID: newID}
}

// Place snapshots the cart into a new pending order and clears the remote
// cart. Cart deletion is best-effort: the order is already committed, so a
// leftover cart doc only means the next sync pass re-clears it.
func (uc *OrderUsecase) Place(ctx context.Context, c *cartdom.Cart) (*orderdom.Order, error) {
	if uc == nil || uc.orders == nil {
		return nil, ErrOrderInvalidArgument
	}
	if c == nil || c.IsEmpty() || strings.TrimSpace(c.UID) == "" {
		return nil, ErrOrderInvalidArgument
	}

	now := uc.clock.Now().UTC()
	o, err := orderdom.FromCart(uc.newID(), c, now)
	if err != nil {
		return nil, err
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	if uc.carts != nil {
		if err := uc.carts.DeleteByUID(ctx, c.UID); err != nil {
			log.Printf("[OrderUsecase] clear cart after placement failed (uid=%s): %v", c.UID, err)
		}
	}
	return o, nil
}

// PlaceForUser loads the user's remote cart and places it.
func (uc *OrderUsecase) PlaceForUser(ctx context.Context, uid string) (*orderdom.Order, error) {
	if uc == nil || uc.carts == nil {
		return nil, ErrOrderInvalidArgument
	}
	u := strings.TrimSpace(uid)
	if u == "" {
		return nil, ErrOrderInvalidArgument
	}
	c, err := uc.carts.GetByUID(ctx, u)
	if err != nil {
		return nil, err
	}
	return uc.Place(ctx, c)
}

// Get returns one order.
func (uc *OrderUsecase) Get(ctx context.Context, id string) (*orderdom.Order, error) {
	if uc == nil || uc.orders == nil {
		return nil, ErrOrderInvalidArgument
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, ErrOrderInvalidArgument
	}
	o, err := uc.orders.GetByID(ctx, oid)
	if errors.Is(err, orderdom.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// ListByUser returns the user's orders, newest first.
func (uc *OrderUsecase) ListByUser(ctx context.Context, uid string, limit int) ([]orderdom.Order, error) {
	if uc == nil || uc.orders == nil {
		return nil, ErrOrderInvalidArgument
	}
	u := strings.TrimSpace(uid)
	if u == "" {
		return nil, ErrOrderInvalidArgument
	}
	return uc.orders.ListByUID(ctx, u, limit)
}

// List returns recent orders across all users (admin view).
func (uc *OrderUsecase) List(ctx context.Context, limit int) ([]orderdom.Order, error) {
	if uc == nil || uc.orders == nil {
		return nil, ErrOrderInvalidArgument
	}
	return uc.orders.List(ctx, limit)
}

// UpdateStatus moves an order to a new status.
func (uc *OrderUsecase) UpdateStatus(ctx context.Context, id, status string) (*orderdom.Order, error) {
	o, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.SetStatus(status, uc.clock.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
