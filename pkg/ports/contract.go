package ports

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRateLimiterContract runs a suite of tests to verify that a RateLimiter
// adheres to the interface contract. limiter must enforce q and start empty.
func RunRateLimiterContract(t *testing.T, limiter RateLimiter, q Quota) {
	t.Helper()
	require.True(t, q.Valid(), "contract needs a valid quota")
	ctx := context.Background()

	t.Run("Within quota", func(t *testing.T) {
		for i := 0; i < q.Limit; i++ {
			d, err := limiter.Allow(ctx, "contract-a")
			require.NoError(t, err)
			assert.True(t, d.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, q.Limit, d.Limit)
			assert.Equal(t, q.Limit-i-1, d.Remaining)
			assert.False(t, d.ResetAt.IsZero())
		}
	})

	t.Run("Over quota", func(t *testing.T) {
		d, err := limiter.Allow(ctx, "contract-a")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
	})

	t.Run("Keys are independent", func(t *testing.T) {
		d, err := limiter.Allow(ctx, "contract-b")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("Concurrent", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
		for i := 0; i < q.Limit*2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d, err := limiter.Allow(ctx, "contract-c")
				assert.NoError(t, err)
				if d.Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, q.Limit, allowed)
	})
}
