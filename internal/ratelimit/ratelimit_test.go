package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, rps float64, burst int) (*KeyedRateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := newLimiter(rps, burst, time.Hour, clock.Now)
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newTestLimiter(t, tt.rps, tt.burst)

			passed := 0
			for range tt.calls {
				if rl.Allow("10.0.0.1") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 1)

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 2, rl.Len())
}

func TestKeyedRateLimiter_Refill(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, 1)

	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))

	clock.Advance(time.Second)
	assert.True(t, rl.Allow("a"))
}

func TestPerMinute(t *testing.T) {
	rl := PerMinute(120, 4)
	defer rl.Stop()

	assert.InDelta(t, 2.0, float64(rl.limit), 1e-9)
	assert.Equal(t, 4, rl.burst)
}

func TestKeyedRateLimiter_RetryAfter(t *testing.T) {
	rl, _ := newTestLimiter(t, 0.5, 1)

	assert.Zero(t, rl.RetryAfter("a"))
	require.True(t, rl.Allow("a"))
	assert.Equal(t, 2*time.Second, rl.RetryAfter("a"))

	// Peeking must not consume a token.
	assert.Equal(t, 2*time.Second, rl.RetryAfter("a"))
}

func TestKeyedRateLimiter_EvictIdle(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, 1)

	rl.Allow("stale")
	clock.Advance(45 * time.Minute)
	rl.Allow("fresh")
	clock.Advance(30 * time.Minute)

	assert.Equal(t, 1, rl.evictIdle())
	assert.Equal(t, 1, rl.Len())

	// An evicted key starts over with a full bucket.
	assert.True(t, rl.Allow("stale"))
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	rl := New(1000, 1)
	defer rl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, rl.Wait(ctx, "a"))
	require.NoError(t, rl.Wait(ctx, "a"))
}

func TestKeyedRateLimiter_WaitCanceled(t *testing.T) {
	rl := New(0.001, 1)
	defer rl.Stop()

	require.True(t, rl.Allow("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, rl.Wait(ctx, "a"))
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := New(1, 1)
	rl.Stop()
	rl.Stop()
}
