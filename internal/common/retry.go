package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/pocket-teller/internal/service"
)

var (
	// ErrRateLimit indicates that the insight provider is throttling requests.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries indicates that all retry attempts have been exhausted.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError classifies a provider failure for WithRetry. RetryAfter is
// the wait the provider asked for, zero when it gave none.
type RetryableError struct {
	Err        error
	RetryAfter time.Duration
	Retryable  bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// WithRetry runs operation until it succeeds, returns a permanent error, ctx
// ends or the attempts run out. The returned error always keeps the last
// failure in its chain so callers can still match ErrRateLimit and friends.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts = withRetryDefaults(opts)
	delay := opts.InitialDelay

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		var classified *RetryableError
		if errors.As(err, &classified) && !classified.Retryable {
			return err
		}

		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempt, err)
		}

		wait := backoff(err, delay, opts)
		slog.Warn("Provider call failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", wait,
			"error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (last error: %w)", ctx.Err(), err)
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*opts.Multiplier), opts.MaxDelay)
	}
}

// backoff picks the wait before the next attempt. A provider-supplied
// Retry-After wins, capped at MaxDelay; an unannotated rate limit waits the
// full MaxDelay.
func backoff(err error, delay time.Duration, opts service.RetryOptions) time.Duration {
	var classified *RetryableError
	if errors.As(err, &classified) && classified.RetryAfter > 0 {
		return min(classified.RetryAfter, opts.MaxDelay)
	}
	if errors.Is(err, ErrRateLimit) {
		return opts.MaxDelay
	}
	return delay
}

func withRetryDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}
	return opts
}
