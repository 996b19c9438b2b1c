package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient(t *testing.T) {
	_, err := newGeminiClient(Config{})
	require.Error(t, err)

	client, err := newGeminiClient(Config{APIKey: "test-key"})
	require.NoError(t, err)
	gc := client.(*geminiClient)
	assert.Equal(t, "gemini-2.0-flash", gc.cfg.Model)
	assert.Equal(t, geminiBaseURL, gc.baseURL)
	assert.InDelta(t, 0.7, gc.cfg.Temperature, 0.0001)
	assert.InDelta(t, 0.95, gc.cfg.TopP, 0.0001)
}

func TestGeminiClient_Generate(t *testing.T) {
	var (
		path     string
		key      string
		captured map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.URL.Query().Get("key")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Consider moving $200 "},{"text":"into savings this week."}]},"finishReason":"STOP"}],"modelVersion":"gemini-test-001"}`))
	}))
	defer server.Close()

	client, err := newGeminiClient(Config{APIKey: "test-key", Model: "models/gemini-test", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), Request{System: "You are Erica.", Prompt: "Analyze", MaxTokens: 64})
	require.NoError(t, err)
	assert.Equal(t, "Consider moving $200 into savings this week.", resp.Text)
	assert.Equal(t, "gemini-test-001", resp.Model)

	assert.Equal(t, "/v1beta/models/gemini-test:generateContent", path)
	assert.Equal(t, "test-key", key)

	cfg, ok := captured["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.7, cfg["temperature"], 0.0001)
	assert.InDelta(t, 0.95, cfg["topP"], 0.0001)
	assert.InDelta(t, 64, cfg["maxOutputTokens"], 0.0001)

	contents, ok := captured["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].(map[string]any)["role"])

	system, ok := captured["systemInstruction"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "You are Erica.", system["parts"].([]any)[0].(map[string]any)["text"])
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	client, err := newGeminiClient(Config{APIKey: "k", Model: "gemini-test", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, resp.Text)
	assert.Equal(t, "gemini-test", resp.Model)
}

func TestGeminiClient_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		retryAfter     string
		statusCode     int
		wantRetryable  bool
		wantRateLimit  bool
		wantRetryAfter time.Duration
		wantMessage    string
	}{
		{
			name:           "quota exhausted",
			statusCode:     http.StatusTooManyRequests,
			retryAfter:     "7",
			body:           `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`,
			wantRetryable:  true,
			wantRateLimit:  true,
			wantRetryAfter: 7 * time.Second,
			wantMessage:    "Resource has been exhausted",
		},
		{
			name:          "unavailable",
			statusCode:    http.StatusServiceUnavailable,
			body:          `{"error":{"code":503,"message":"The model is overloaded","status":"UNAVAILABLE"}}`,
			wantRetryable: true,
			wantMessage:   "The model is overloaded",
		},
		{
			name:        "bad key",
			statusCode:  http.StatusBadRequest,
			body:        `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`,
			wantMessage: "API key not valid",
		},
		{
			name:        "non-json error body",
			statusCode:  http.StatusBadGateway,
			body:        "upstream failure",
			wantMessage: "upstream failure",
			// 5xx stays retryable regardless of the body.
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := newGeminiClient(Config{APIKey: "secret-key", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), Request{Prompt: "p"})
			require.Error(t, err)

			var classified *common.RetryableError
			require.True(t, errors.As(err, &classified))
			assert.Equal(t, tt.wantRetryable, classified.Retryable)
			assert.Equal(t, tt.wantRetryAfter, classified.RetryAfter)
			assert.Equal(t, tt.wantRateLimit, errors.Is(err, common.ErrRateLimit))
			assert.Contains(t, err.Error(), tt.wantMessage)
			assert.NotContains(t, err.Error(), "secret-key")
		})
	}
}

func TestGeminiClient_TransportErrorHidesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := newGeminiClient(Config{APIKey: "secret-key", BaseURL: url})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "missing", value: "", want: 0},
		{name: "seconds", value: "3", want: 3 * time.Second},
		{name: "garbage", value: "soon", want: 0},
		{name: "date in the past", value: "Mon, 02 Jan 2006 15:04:05 GMT", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set("Retry-After", tt.value)
			}
			assert.Equal(t, tt.want, retryAfter(h))
		})
	}
}
