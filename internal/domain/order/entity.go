// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	cartdom "boutique/internal/domain/cart"
)

var (
	ErrInvalidOrder = errors.New("order: invalid")
	ErrNotFound     = errors.New("order: not found")
)

// Statuses. Orders start pending and move forward only.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusCancelled = "cancelled"
)

// Line is an order line, copied from a cart line at placement time so later
// catalog edits cannot rewrite order history.
type Line struct {
	ProductID string  `json:"productId" firestore:"productId"`
	Size      string  `json:"size" firestore:"size"`
	Color     string  `json:"color" firestore:"color"`
	Qty       int     `json:"qty" firestore:"qty"`
	UnitPrice float64 `json:"unitPrice" firestore:"unitPrice"`
}

// Order is a placed order.
// - docId = ID (Firestore)
type Order struct {
	ID         string    `json:"id" firestore:"id"`
	UID        string    `json:"uid" firestore:"uid"`
	Lines      []Line    `json:"lines" firestore:"lines"`
	CouponCode string    `json:"couponCode,omitempty" firestore:"couponCode,omitempty"`
	Discount   float64   `json:"discount" firestore:"discount"`
	Total      float64   `json:"total" firestore:"total"`
	Status     string    `json:"status" firestore:"status"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// FromCart builds an order from a non-empty cart snapshot.
func FromCart(id string, c *cartdom.Cart, now time.Time) (*Order, error) {
	id = strings.TrimSpace(id)
	if id == "" || c == nil || c.IsEmpty() || strings.TrimSpace(c.UID) == "" {
		return nil, ErrInvalidOrder
	}

	lines := make([]Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, Line{
			ProductID: it.ProductID,
			Size:      it.Size,
			Color:     it.Color,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}

	return &Order{
		ID:         id,
		UID:        c.UID,
		Lines:      lines,
		CouponCode: c.CouponCode,
		Discount:   c.Discount,
		Total:      c.Total(),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SetStatus moves the order to a new status.
func (o *Order) SetStatus(status string, now time.Time) error {
	if o == nil {
		return ErrInvalidOrder
	}
	switch status {
	case StatusPending, StatusPaid, StatusShipped, StatusCancelled:
	default:
		return ErrInvalidOrder
	}
	o.Status = status
	o.UpdatedAt = now
	return nil
}
