package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/toolshed/pkg/ports"
)

// Limiter implements ports.RateLimiter in memory.
// Safe for concurrent use. Counts are per process, so replicas do not share quotas.
type Limiter struct {
	quota ports.Quota
	now   func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// NewLimiter creates a limiter enforcing q.
func NewLimiter(q ports.Quota, opts ...Option) *Limiter {
	l := &Limiter{
		quota:   q,
		now:     time.Now,
		windows: make(map[string]*window),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastSweep = l.now()
	return l
}

// Allow records one request for key.
func (l *Limiter) Allow(_ context.Context, key string) (ports.Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.quota.Window)}
		l.windows[key] = w
	}
	w.count++

	d := ports.Decision{
		Allowed: w.count <= l.quota.Limit,
		Limit:   l.quota.Limit,
		ResetAt: w.resetAt,
	}
	if d.Allowed {
		d.Remaining = l.quota.Limit - w.count
	}
	return d, nil
}

// sweep drops expired windows at most once per window length.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.quota.Window {
		return
	}
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
	l.lastSweep = now
}

// Len reports how many keys currently hold a window.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
