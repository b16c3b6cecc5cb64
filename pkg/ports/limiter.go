package ports

import (
	"context"
	"errors"
	"time"
)

// ErrRateLimited is returned by adapters when a Decision denies a request.
var ErrRateLimited = errors.New("rate limit exceeded")

// Quota is the number of requests allowed per window.
type Quota struct {
	Limit  int
	Window time.Duration
}

// Valid reports whether q can be enforced.
func (q Quota) Valid() bool {
	return q.Limit > 0 && q.Window > 0
}

// Decision is the outcome of one RateLimiter.Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the current window ends.
	ResetAt time.Time
}

// RetryAfter is the wait until the window resets, rounded up to whole seconds.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed {
		return 0
	}
	wait := d.ResetAt.Sub(now)
	if wait <= 0 {
		return time.Second
	}
	return (wait + time.Second - 1).Truncate(time.Second)
}

// RateLimiter counts requests per key in fixed windows.
// The first request for a key opens its window; the count resets when the window ends.
type RateLimiter interface {
	// Allow records one request for key and reports whether it fits the quota.
	Allow(ctx context.Context, key string) (Decision, error)
}
