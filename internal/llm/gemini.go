package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// geminiClient implements the Client interface for the Gemini
// generateContent endpoint.
type geminiClient struct {
	httpClient *http.Client
	cfg        Config
	baseURL    string
}

// newGeminiClient creates a new Gemini client.
func newGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.95
	}

	baseURL := geminiBaseURL
	if cfg.BaseURL != "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &geminiClient{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		TopP            float64 `json:"topP"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
}

// Generate posts a single-turn request to models/{model}:generateContent.
func (c *geminiClient) Generate(ctx context.Context, r Request) (Response, error) {
	var body geminiRequest
	body.Contents = []geminiContent{{Role: "user", Parts: []geminiPart{{Text: r.Prompt}}}}
	if r.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: r.System}}}
	}
	body.GenerationConfig.Temperature = c.cfg.temperature(r)
	body.GenerationConfig.TopP = c.cfg.topP(r)
	body.GenerationConfig.MaxOutputTokens = c.cfg.maxTokens(r)

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	model := strings.TrimPrefix(c.cfg.Model, "models/")
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s",
		c.baseURL, url.PathEscape(model), url.Values{"key": {c.cfg.APIKey}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request failed: %w", stripKey(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if err := googleapi.CheckResponse(resp); err != nil {
		return Response{}, classifyGeminiError(err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}

	var response geminiResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return Response{}, fmt.Errorf("failed to parse response: %w", err)
	}

	var text strings.Builder
	if len(response.Candidates) > 0 {
		for _, part := range response.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}

	modelName := response.ModelVersion
	if modelName == "" {
		modelName = c.cfg.Model
	}
	return Response{Text: cleanText(text.String()), Model: modelName}, nil
}

// classifyGeminiError maps the googleapi error envelope onto the retry policy.
func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("request failed: %w", err)
	}
	msg := apiErr.Message
	if msg == "" {
		msg = strings.TrimSpace(apiErr.Body)
	}
	return classifyStatus(apiErr.Code, apiErr.Header,
		fmt.Errorf("gemini API error (status %d): %s", apiErr.Code, msg))
}

// stripKey keeps the API key out of transport errors, which quote the URL.
func stripKey(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
			u.RawQuery = ""
			return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
		}
	}
	return err
}
