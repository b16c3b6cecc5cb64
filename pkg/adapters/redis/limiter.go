package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/toolshed/pkg/ports"
)

// DefaultPrefix namespaces limiter keys.
const DefaultPrefix = "toolshed:ratelimit:"

// allowScript increments the window counter and starts the window on first use.
// It returns the new count and the remaining window in milliseconds.
var allowScript = backend.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// Limiter implements ports.RateLimiter using Redis, so replicas share one quota per key.
type Limiter struct {
	client backend.UniversalClient
	quota  ports.Quota
	prefix string
	now    func() time.Time
	owned  bool
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithPrefix sets the key prefix (default DefaultPrefix).
func WithPrefix(prefix string) Option {
	return func(l *Limiter) {
		l.prefix = prefix
	}
}

// WithClock overrides the time source used for Decision.ResetAt.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New connects to addr, either host:port or a redis:// URL.
func New(addr string, q ports.Quota, opts ...Option) (*Limiter, error) {
	var cfg *backend.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := backend.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		cfg = parsed
	} else {
		cfg = &backend.Options{Addr: addr}
	}
	l := NewFromClient(backend.NewClient(cfg), q, opts...)
	l.owned = true
	return l, nil
}

// NewFromClient wraps an existing client. Close leaves the client open.
func NewFromClient(client backend.UniversalClient, q ports.Quota, opts ...Option) *Limiter {
	l := &Limiter{
		client: client,
		quota:  q,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records one request for key.
func (l *Limiter) Allow(ctx context.Context, key string) (ports.Decision, error) {
	res, err := allowScript.Run(ctx, l.client, []string{l.prefix + key}, l.quota.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return ports.Decision{}, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(res) != 2 {
		return ports.Decision{}, fmt.Errorf("redis rate limit: unexpected reply %v", res)
	}
	count, ttl := res[0], res[1]

	d := ports.Decision{
		Allowed: count <= int64(l.quota.Limit),
		Limit:   l.quota.Limit,
		ResetAt: l.now().Add(time.Duration(ttl) * time.Millisecond),
	}
	if d.Allowed {
		d.Remaining = l.quota.Limit - int(count)
	}
	return d, nil
}

// Ping checks connectivity, for health endpoints.
func (l *Limiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close releases the client when New created it.
func (l *Limiter) Close() error {
	if !l.owned {
		return nil
	}
	return l.client.Close()
}
