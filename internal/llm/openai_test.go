package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClient(t *testing.T) {
	_, err := newOpenAIClient(Config{})
	require.Error(t, err)

	client, err := newOpenAIClient(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.(*openAIClient).cfg.Model)
}

func TestOpenAIClient_Generate(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"model":"gpt-test","choices":[{"index":0,"message":{"role":"assistant","content":"Review your dining spend this week."}}]}`))
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL, Temperature: 0.7, TopP: 0.95})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), Request{System: "sys", Prompt: "user", MaxTokens: 40})
	require.NoError(t, err)
	assert.Equal(t, "Review your dining spend this week.", resp.Text)

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2)
	assert.InDelta(t, 0.95, captured["top_p"], 0.0001)
	assert.InDelta(t, 40, captured["max_tokens"], 0.0001)
}

func TestOpenAIClient_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Prompt: "hi"})
	assert.ErrorIs(t, err, common.ErrRateLimit)
}
