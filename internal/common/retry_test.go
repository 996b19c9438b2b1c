package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	errTransient := errors.New("transient")

	tests := []struct {
		failures  int
		name      string
		permanent bool
		wantCalls int
		wantErr   bool
	}{
		{name: "succeeds first time", failures: 0, wantCalls: 1},
		{name: "succeeds after retries", failures: 2, wantCalls: 3},
		{name: "exhausts attempts", failures: 5, wantCalls: 3, wantErr: true},
		{name: "stops on permanent error", failures: 5, permanent: true, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					if tt.permanent {
						return &RetryableError{Err: errTransient, Retryable: false}
					}
					return errTransient
				}
				return nil
			}, fastRetry(3))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errTransient)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWithRetry_ExhaustedWrapsMaxRetries(t *testing.T) {
	err := WithRetry(context.Background(), func() error {
		return errors.New("boom")
	}, fastRetry(2))

	assert.ErrorIs(t, err, ErrMaxRetries)
}

func TestWithRetry_ExhaustedKeepsProviderCause(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  error
	}{
		{name: "rate limit", cause: &RetryableError{Err: fmt.Errorf("%w: status 429", ErrRateLimit), Retryable: true}, want: ErrRateLimit},
		{name: "unavailable", cause: &RetryableError{Err: ErrInsightUnavailable, Retryable: true}, want: ErrInsightUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fastRetry(2)
			opts.MaxDelay = time.Millisecond
			err := WithRetry(context.Background(), func() error { return tt.cause }, opts)

			assert.ErrorIs(t, err, ErrMaxRetries)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsRetryable(err))
		})
	}
}

func TestWithRetry_HonorsRetryAfter(t *testing.T) {
	opts := service.RetryOptions{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2,
	}

	calls := 0
	start := time.Now()
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: ErrRateLimit, RetryAfter: 40 * time.Millisecond, Retryable: true}
		}
		return nil
	}, opts)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond, "Retry-After replaces the MaxDelay wait for rate limits")
}

func TestBackoff(t *testing.T) {
	opts := withRetryDefaults(service.RetryOptions{InitialDelay: time.Millisecond, MaxDelay: time.Second})

	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{name: "plain error uses current delay", err: errors.New("reset"), want: 5 * time.Millisecond},
		{name: "rate limit waits max delay", err: ErrRateLimit, want: time.Second},
		{name: "retry after wins", err: &RetryableError{Err: ErrRateLimit, RetryAfter: 200 * time.Millisecond, Retryable: true}, want: 200 * time.Millisecond},
		{name: "retry after is capped", err: &RetryableError{Err: ErrRateLimit, RetryAfter: time.Minute, Retryable: true}, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, backoff(tt.err, 5*time.Millisecond, opts))
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastRetry(3)
	opts.InitialDelay = time.Second
	opts.MaxDelay = time.Second

	err := WithRetry(ctx, func() error {
		return errors.New("boom")
	}, opts)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "boom")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: false}))
	assert.False(t, IsRetryable(ErrNotFound))
}

func TestUserError(t *testing.T) {
	err := NewUserError("Invalid Online ID or Passcode.", ErrInvalidCredentials)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid Online ID or Passcode.", UserMessage(err))
	assert.Equal(t, "insufficient funds", UserMessage(ErrInsufficientFunds))
	assert.Contains(t, err.Error(), "invalid credentials")
}
