// internal/ratelimit/limiter.go
package ratelimit

import (
	"sync"
	"time"
)

// DefaultSweepInterval is how often expired windows are garbage-collected.
// The sweep has no correctness dependency: losing an entry early only
// under-penalizes a client, never over-penalizes.
const DefaultSweepInterval = 5 * time.Minute

// Preset is a named, reusable window/limit pair (configuration, not
// mechanism).
type Preset struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Named presets for the sensitive endpoints.
var (
	PresetLogin           = Preset{Name: "login", Limit: 5, Window: 15 * time.Minute}
	PresetSessionExchange = Preset{Name: "session", Limit: 30, Window: 15 * time.Minute}
	PresetPayment         = Preset{Name: "payment", Limit: 10, Window: time.Minute}
	PresetNewsletter      = Preset{Name: "newsletter", Limit: 3, Window: time.Hour}
	PresetGeneral         = Preset{Name: "general", Limit: 30, Window: time.Minute}
)

// Result is the outcome of a Check call.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is an in-process fixed-window rate limiter keyed by caller-chosen
// strings (typically "preset:clientAddr").
//
// Fixed window means the count resets entirely when the window boundary is
// crossed, which admits short bursts of up to 2× limit at the boundary. That
// imprecision is documented and intentional; do not "fix" it to a sliding
// window.
//
// Valid for a single server instance only; multi-instance deployments must
// swap in a shared Store behind the same interface.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	now  func() time.Time
	done chan struct{}
	once sync.Once
}

// Store is the seam for a future shared-store-backed limiter. *Limiter is
// the in-process implementation.
type Store interface {
	Check(key string, limit int, window time.Duration) Result
}

// Option tunes a Limiter.
type Option func(*Limiter)

// WithClock injects a clock (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter and starts the periodic sweep. Callers own the
// lifecycle: construct at process start, Stop at shutdown.
func New(sweepInterval time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	go l.sweepLoop(sweepInterval)

	return l
}

// Check records a request for key and reports whether it is allowed.
// Never errors: an unknown key is "not yet seen", and opens a fresh window.
func (l *Limiter) Check(key string, limit int, window time.Duration) Result {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || !now.Before(e.resetAt) {
		// first request, or the old window has expired: open a new one
		e = &entry{count: 1, resetAt: now.Add(window)}
		l.entries[key] = e
		return Result{Allowed: true, Remaining: limit - 1, ResetAt: e.resetAt}
	}

	e.count++
	remaining := limit - e.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   e.count <= limit,
		Remaining: remaining,
		ResetAt:   e.resetAt,
	}
}

// CheckPreset applies a named preset to a client address.
func (l *Limiter) CheckPreset(p Preset, clientAddr string) Result {
	return l.Check(p.Name+":"+clientAddr, p.Limit, p.Window)
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Len reports the number of tracked windows (including expired ones not yet
// swept).
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Limiter) sweepLoop(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.sweep()
		case <-l.done:
			return
		}
	}
}

// sweep deletes entries whose window already expired, bounding memory growth.
func (l *Limiter) sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, e := range l.entries {
		if !now.Before(e.resetAt) {
			delete(l.entries, k)
		}
	}
}
