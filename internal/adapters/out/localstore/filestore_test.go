package localstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "boutique/internal/domain/cart"
	wldom "boutique/internal/domain/wishlist"
)

func TestFileStoreRoundTripSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device", "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	c := cartdom.New("", []cartdom.Item{
		{ProductID: "p1", Size: "M", Color: "red", Qty: 2, UnitPrice: 10},
	}, now)
	require.NoError(t, c.ApplyCoupon("SAVE5", 5, now))
	require.NoError(t, s.SaveCart(c))

	w := wldom.New("", []string{"p2", "p1"}, now)
	require.NoError(t, s.SaveWishlist(w))
	require.NoError(t, s.SetPromoDismissed(true))

	// reopen: state must survive a reload
	s2, err := NewFileStore(path)
	require.NoError(t, err)

	gotCart, err := s2.LoadCart()
	require.NoError(t, err)
	require.NotNil(t, gotCart)
	assert.Equal(t, "SAVE5", gotCart.CouponCode)
	require.Len(t, gotCart.Items, 1)
	assert.Equal(t, 2, gotCart.Items[0].Qty)

	gotWl, err := s2.LoadWishlist()
	require.NoError(t, err)
	require.NotNil(t, gotWl)
	assert.Equal(t, []string{"p1", "p2"}, gotWl.Items)

	dismissed, err := s2.PromoDismissed()
	require.NoError(t, err)
	assert.True(t, dismissed)
}

func TestFileStoreEmptyLoadsReturnNil(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	c, err := s.LoadCart()
	require.NoError(t, err)
	assert.Nil(t, c)

	w, err := s.LoadWishlist()
	require.NoError(t, err)
	assert.Nil(t, w)
}
