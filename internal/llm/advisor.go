package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/service"
)

// Advisor wraps a Client with caching, rate limiting and retries.
type Advisor struct {
	client      Client
	cache       *responseCache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	provider    string
	retryOpts   service.RetryOptions
}

// NewAdvisor creates an Advisor for the configured provider.
func NewAdvisor(cfg Config, logger *slog.Logger) (*Advisor, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewAdvisorWithClient(client, cfg, logger), nil
}

// NewAdvisorWithClient wraps an existing client.
func NewAdvisorWithClient(client Client, cfg Config, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = ProviderNone
	}

	return &Advisor{
		client:      client,
		cache:       newResponseCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
		provider:    provider,
		retryOpts:   retryOpts,
	}
}

// Provider returns the configured provider name.
func (a *Advisor) Provider() string {
	return a.provider
}

// Complete generates text for req. Empty generations are returned as "" with
// no error; they are not cached.
func (a *Advisor) Complete(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req)
	if text, found := a.cache.get(key); found {
		a.logger.Debug("cache hit for generation", "provider", a.provider)
		return text, nil
	}

	if err := a.rateLimiter.wait(ctx); err != nil {
		a.logger.Debug("generation abandoned while rate limited", "provider", a.provider, "error", err)
		return "", err
	}

	var resp Response
	err := common.WithRetry(ctx, func() error {
		var genErr error
		resp, genErr = a.client.Generate(ctx, req)
		if genErr == nil {
			return nil
		}
		var retryable *common.RetryableError
		if errors.As(genErr, &retryable) {
			return genErr
		}
		if errors.Is(genErr, context.Canceled) || errors.Is(genErr, context.DeadlineExceeded) {
			return &common.RetryableError{Err: genErr, Retryable: false}
		}
		return &common.RetryableError{Err: genErr, Retryable: true}
	}, a.retryOpts)
	if err != nil {
		return "", err
	}

	if resp.Text != "" {
		a.cache.set(key, resp.Text)
	}

	a.logger.Debug("generation complete",
		"provider", a.provider,
		"model", resp.Model,
		"chars", len(resp.Text))
	return resp.Text, nil
}

// Close releases background resources.
func (a *Advisor) Close() error {
	a.cache.Close()
	return nil
}
