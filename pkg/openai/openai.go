package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultTimeout = 60 * time.Second

// ErrRateLimited is returned on upstream 429 responses. The caller owns
// the retry policy; this client never retries.
var ErrRateLimited = errors.New("openai: rate limit exceeded")

var ErrEmptyResponse = errors.New("openai: response contains no choices")

// HTTPClient abstracts the Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (string, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type client struct {
	apiKey     string
	baseURL    *url.URL
	httpClient HTTPClient
}

// New builds a client. An empty API key is permitted so the service can
// boot and report itself unconfigured; requests will fail upstream.
func New(cfg *Config, httpClient HTTPClient) (Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("openai: invalid base URL: %w", err)
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &client{
		apiKey:     cfg.APIKey,
		baseURL:    parsed,
		httpClient: httpClient,
	}, nil
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// APIError carries the provider's message for non-429 upstream failures.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("openai: status %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("openai: status %d", e.StatusCode)
}

// ChatCompletion posts one chat-completions request and returns the first
// choice's message content.
func (c *client) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("openai: failed to marshal request: %w", err)
	}

	// JoinPath keeps a path prefix on the base URL (such as /v1) intact.
	endpoint := c.baseURL.JoinPath("chat", "completions")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}

	if resp.StatusCode >= 400 {
		var errPayload errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errPayload)

		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    errPayload.Error.Message,
		}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai: failed to decode response: %w", err)
	}

	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return out.Choices[0].Message.Content, nil
}
