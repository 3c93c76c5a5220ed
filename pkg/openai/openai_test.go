package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(&Config{APIKey: "test-key", BaseURL: srv.URL}, srv.Client())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return client
}

type captureClient struct {
	req *http.Request
}

func (c *captureClient) Do(req *http.Request) (*http.Response, error) {
	c.req = req

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"choices":[{"message":{"content":"ok"}}]}`)),
	}, nil
}

func TestChatCompletionKeepsBasePath(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{name: "versioned without trailing slash", baseURL: "https://api.openai.com/v1", want: "https://api.openai.com/v1/chat/completions"},
		{name: "versioned with trailing slash", baseURL: "https://api.openai.com/v1/", want: "https://api.openai.com/v1/chat/completions"},
		{name: "bare host", baseURL: "http://localhost:8080", want: "http://localhost:8080/chat/completions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture := &captureClient{}

			client, err := New(&Config{APIKey: "test-key", BaseURL: tt.baseURL}, capture)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			if _, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "gpt-4o-mini"}); err != nil {
				t.Fatalf("ChatCompletion() error = %v", err)
			}

			if got := capture.req.URL.String(); got != tt.want {
				t.Errorf("request URL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatCompletion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		if req.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", req.Model)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"operation":"sum"}`}},
			},
		})
	})

	content, err := client.ChatCompletion(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []Message{{Role: "user", Content: "sum it"}},
	})
	if err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}

	if content != `{"operation":"sum"}` {
		t.Errorf("content = %q", content)
	}
}

func TestChatCompletionRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "gpt-4o-mini"})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, want %v", err, ErrRateLimited)
	}
}

func TestChatCompletionAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model not found", "type": "invalid_request_error"},
		})
	})

	_, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "nope"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}

	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "model not found" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "gpt-4o-mini"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("error = %v, want %v", err, ErrEmptyResponse)
	}
}
