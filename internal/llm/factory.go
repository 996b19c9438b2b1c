package llm

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
)

// NewClient creates a raw LLM client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini:
		return newGeminiClient(cfg)
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	case ProviderNone, "":
		return noneClient{}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// noneClient is used when no provider is configured.
type noneClient struct{}

func (noneClient) Generate(context.Context, Request) (Response, error) {
	return Response{}, &common.RetryableError{Err: common.ErrInsightUnavailable, Retryable: false}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// statusError classifies a non-200 response for the retry policy.
func statusError(provider string, resp *http.Response, body []byte) error {
	err := fmt.Errorf("%s API error (status %d): %s", provider, resp.StatusCode, strings.TrimSpace(string(body)))
	return classifyStatus(resp.StatusCode, resp.Header, err)
}

// classifyStatus marks throttling and server failures retryable; everything
// else is the caller's fault and fails fast.
func classifyStatus(status int, header http.Header, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &common.RetryableError{
			Err:        fmt.Errorf("%w: %w", common.ErrRateLimit, err),
			RetryAfter: retryAfter(header),
			Retryable:  true,
		}
	case status >= 500:
		return &common.RetryableError{Err: err, RetryAfter: retryAfter(header), Retryable: true}
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(header http.Header) time.Duration {
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
