package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T, clock *fakeClock) *Limiter {
	t.Helper()
	l := New(time.Hour, WithClock(clock.Now))
	t.Cleanup(l.Stop)
	return l
}

func TestFixedWindowAllowsUpToLimitThenDenies(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(t, clock)

	const limit = 3
	window := time.Second

	for i := 0; i < limit; i++ {
		res := l.Check("k", limit, window)
		assert.True(t, res.Allowed, "call %d within window must pass", i+1)
	}

	res := l.Check("k", limit, window)
	assert.False(t, res.Allowed, "4th call within window must be denied")
	assert.Zero(t, res.Remaining)

	// after the window elapses a brand-new window opens
	clock.Advance(window + time.Millisecond)
	res = l.Check("k", limit, window)
	assert.True(t, res.Allowed)
	assert.Equal(t, limit-1, res.Remaining)
}

func TestWindowResetAtIsStableWithinWindow(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(t, clock)

	first := l.Check("k", 10, time.Minute)
	clock.Advance(10 * time.Second)
	second := l.Check("k", 10, time.Minute)

	assert.Equal(t, first.ResetAt, second.ResetAt,
		"fixed window must not slide on subsequent requests")
}

func TestKeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(t, clock)

	require.True(t, l.Check("a", 1, time.Minute).Allowed)
	assert.False(t, l.Check("a", 1, time.Minute).Allowed)
	assert.True(t, l.Check("b", 1, time.Minute).Allowed, "other clients unaffected")
}

func TestCheckPresetUsesNamespacedKey(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(t, clock)

	p := Preset{Name: "tiny", Limit: 1, Window: time.Minute}
	assert.True(t, l.CheckPreset(p, "1.2.3.4").Allowed)
	assert.False(t, l.CheckPreset(p, "1.2.3.4").Allowed)

	// same address under a different preset has its own window
	q := Preset{Name: "other", Limit: 1, Window: time.Minute}
	assert.True(t, l.CheckPreset(q, "1.2.3.4").Allowed)
}

func TestSweepDropsExpiredWindowsOnly(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(t, clock)

	l.Check("old", 5, time.Second)
	clock.Advance(2 * time.Second)
	l.Check("fresh", 5, time.Minute)

	require.Equal(t, 2, l.Len())
	l.sweep()
	assert.Equal(t, 1, l.Len(), "only the expired window is collected")

	// losing an entry early must never over-penalize
	res := l.Check("old", 5, time.Second)
	assert.True(t, res.Allowed)
}

func TestBoundaryBurstIsAccepted(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(t, clock)

	// documented fixed-window imprecision: limit requests at the end of one
	// window plus limit at the start of the next all pass
	const limit = 2
	window := time.Second

	assert.True(t, l.Check("k", limit, window).Allowed)
	assert.True(t, l.Check("k", limit, window).Allowed)
	clock.Advance(window)
	assert.True(t, l.Check("k", limit, window).Allowed)
	assert.True(t, l.Check("k", limit, window).Allowed)
}
