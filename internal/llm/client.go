package llm

import (
	"context"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderNone      = "none"
)

// Client defines the interface for LLM providers.
type Client interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a single-turn generation request. Zero sampling values use the
// client's configured defaults.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Response contains the generated text.
type Response struct {
	Text  string
	Model string
}

// Config holds provider settings.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// cleanText strips markdown fences and wrapping quotes models sometimes add.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func (c Config) temperature(req Request) float64 {
	if req.Temperature != 0 {
		return req.Temperature
	}
	return c.Temperature
}

func (c Config) topP(req Request) float64 {
	if req.TopP != 0 {
		return req.TopP
	}
	return c.TopP
}

func (c Config) maxTokens(req Request) int {
	if req.MaxTokens != 0 {
		return req.MaxTokens
	}
	return c.MaxTokens
}
