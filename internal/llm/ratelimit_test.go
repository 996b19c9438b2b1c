package llm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t  time.Time
	mu sync.Mutex
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(perMinute int) (*rateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, time.October, 24, 9, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(perMinute)
	rl.now = clock.now
	rl.last = clock.now()
	return rl, clock
}

func TestRateLimiter(t *testing.T) {
	t.Run("burst up to capacity", func(t *testing.T) {
		rl, _ := newTestLimiter(5)
		for i := 0; i < 5; i++ {
			assert.True(t, rl.tryAcquire(), "acquire %d", i+1)
		}
		assert.False(t, rl.tryAcquire())
	})

	t.Run("refills from elapsed time", func(t *testing.T) {
		rl, clock := newTestLimiter(6)
		for i := 0; i < 6; i++ {
			require.True(t, rl.tryAcquire())
		}

		assert.Equal(t, 10*time.Second, rl.reserve())
		clock.advance(5 * time.Second)
		assert.Equal(t, 5*time.Second, rl.reserve())
		clock.advance(5 * time.Second)
		assert.True(t, rl.tryAcquire())
		assert.False(t, rl.tryAcquire())
	})

	t.Run("never exceeds capacity", func(t *testing.T) {
		rl, clock := newTestLimiter(2)
		clock.advance(time.Hour)
		assert.True(t, rl.tryAcquire())
		assert.True(t, rl.tryAcquire())
		assert.False(t, rl.tryAcquire())
	})

	t.Run("default rate limit", func(t *testing.T) {
		rl, _ := newTestLimiter(0)
		for i := 0; i < 60; i++ {
			require.True(t, rl.tryAcquire())
		}
		assert.False(t, rl.tryAcquire())
	})

	t.Run("wait returns when a token accrues", func(t *testing.T) {
		rl := newRateLimiter(600)
		for rl.tryAcquire() {
		}

		start := time.Now()
		require.NoError(t, rl.wait(context.Background()))
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("canceled scope abandons the wait", func(t *testing.T) {
		rl, _ := newTestLimiter(1)
		require.NoError(t, rl.wait(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- rl.wait(ctx) }()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.Error(t, err)
			assert.ErrorIs(t, err, context.Canceled)
			assert.Contains(t, err.Error(), "rate limiter canceled")
		case <-time.After(time.Second):
			t.Fatal("wait did not return after cancel")
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		rl, _ := newTestLimiter(100)

		var (
			acquired int
			mu       sync.Mutex
			wg       sync.WaitGroup
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 15; j++ {
					if rl.tryAcquire() {
						mu.Lock()
						acquired++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, acquired)
	})
}
