package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter paces provider calls with a token bucket that refills lazily:
// tokens accrue from elapsed time on each acquire, so there is no background
// goroutine to stop. Insight posts and chat replies share one bucket.
type rateLimiter struct {
	last     time.Time
	now      func() time.Time
	interval time.Duration
	tokens   float64
	capacity float64
	mu       sync.Mutex
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	rl := &rateLimiter{
		now:      time.Now,
		interval: time.Minute / time.Duration(requestsPerMinute),
		tokens:   float64(requestsPerMinute),
		capacity: float64(requestsPerMinute),
	}
	rl.last = rl.now()
	return rl
}

// wait blocks until a token is taken. When ctx ends first (the user signed
// out, left the chat, or the insight was cancelled) nothing is consumed.
func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		delay := rl.reserve()
		if delay == 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// reserve takes a token and returns 0, or returns how long until one accrues.
func (rl *rateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens >= 1 {
		rl.tokens--
		return 0
	}
	return time.Duration((1 - rl.tokens) * float64(rl.interval))
}

func (rl *rateLimiter) tryAcquire() bool {
	return rl.reserve() == 0
}

func (rl *rateLimiter) refillLocked() {
	now := rl.now()
	if elapsed := now.Sub(rl.last); elapsed > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+float64(elapsed)/float64(rl.interval))
	}
	rl.last = now
}
