package ai

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAdmitsUpToLimit(t *testing.T) {
	limiter := NewRateLimiter(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Acquire(ctx))
	}
	assert.Equal(t, 3, limiter.InFlight())
}

func TestRateLimiterBlocksAtCeiling(t *testing.T) {
	limiter := newRateLimiter(1, 100*time.Millisecond, time.Now)
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx))

	start := time.Now()
	require.NoError(t, limiter.Acquire(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond,
		"second acquire should wait for the window to roll")
}

func TestRateLimiterRollingWindow(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	limiter := newRateLimiter(2, time.Minute, clock)

	_, ok := limiter.tryAcquire()
	require.True(t, ok)
	_, ok = limiter.tryAcquire()
	require.True(t, ok)

	wait, ok := limiter.tryAcquire()
	require.False(t, ok)
	assert.Equal(t, time.Minute, wait)

	// Advance past the window; both slots free up.
	now = now.Add(61 * time.Second)
	_, ok = limiter.tryAcquire()
	assert.True(t, ok)
	assert.Equal(t, 1, limiter.InFlight())
}

func TestRateLimiterBoundUnderConcurrency(t *testing.T) {
	now := time.Now()
	var clockMu sync.Mutex
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return now
	}
	limiter := newRateLimiter(5, time.Minute, clock)

	admitted := 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := limiter.tryAcquire(); ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, admitted, "ceiling must hold across goroutines")
}

func TestRateLimiterContextCancellation(t *testing.T) {
	limiter := NewRateLimiter(1)
	require.NoError(t, limiter.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// The aborted caller consumed no capacity.
	assert.Equal(t, 1, limiter.InFlight())
}
