// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture serves body with status at *endpoint and decodes each request
// body into into.
func capture(t *testing.T, endpoint *string, status int, body string, into any, headers http.Header) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if into != nil {
			_ = json.Unmarshal(raw, into)
		}
		for k, v := range r.Header {
			headers[k] = v
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	old := *endpoint
	*endpoint = ts.URL
	t.Cleanup(func() {
		*endpoint = old
		ts.Close()
	})
}

var testPrompt = Prompt{System: "sys", User: "write", MaxTokens: 100}

// --- OpenAI ---

func TestOpenAIProviderComplete(t *testing.T) {
	var got openAIRequest
	headers := http.Header{}
	capture(t, &openAIAPIURL, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"{\"title\":\"T\"}"},"finish_reason":"stop"}]}`,
		&got, headers)

	p := &OpenAIProvider{APIKey: "sk-test", Model: "gpt-5", Client: http.DefaultClient}
	text, err := p.Complete(context.Background(), testPrompt)
	require.NoError(t, err)

	assert.Equal(t, `{"title":"T"}`, text)
	assert.Equal(t, "Bearer sk-test", headers.Get("Authorization"))
	assert.Equal(t, "gpt-5", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Equal(t, 100, got.MaxCompletionTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "write", got.Messages[1].Content)
}

func TestOpenAIProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http error", http.StatusUnauthorized, `{"error":"bad key"}`, "returned 401"},
		{"no choices", http.StatusOK, `{"choices":[]}`, ErrEmptyResponse.Error()},
		{"bad json", http.StatusOK, `{`, "decoding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture(t, &openAIAPIURL, tt.status, tt.body, nil, http.Header{})
			p := &OpenAIProvider{APIKey: "k", Model: "m", Client: http.DefaultClient}
			_, err := p.Complete(context.Background(), testPrompt)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

// --- Anthropic ---

func TestAnthropicProviderComplete(t *testing.T) {
	var got anthropicRequest
	headers := http.Header{}
	capture(t, &anthropicAPIURL, http.StatusOK,
		`{"content":[{"type":"text","text":"{\"title\":"},{"type":"tool_use"},{"type":"text","text":"\"T\"}"}]}`,
		&got, headers)

	p := &AnthropicProvider{APIKey: "ak", Model: "claude", Client: http.DefaultClient}
	text, err := p.Complete(context.Background(), testPrompt)
	require.NoError(t, err)

	assert.Equal(t, `{"title":"T"}`, text)
	assert.Equal(t, "ak", headers.Get("X-Api-Key"))
	assert.Equal(t, "2023-06-01", headers.Get("Anthropic-Version"))
	assert.Equal(t, "sys", got.System)
	assert.Equal(t, 100, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestAnthropicProviderEmpty(t *testing.T) {
	capture(t, &anthropicAPIURL, http.StatusOK, `{"content":[]}`, nil, http.Header{})
	p := &AnthropicProvider{APIKey: "k", Model: "m", Client: http.DefaultClient}
	_, err := p.Complete(context.Background(), testPrompt)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAnthropicProviderRetriesThrottle(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Model != "m" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"content":[{"type":"text","text":"ok"}]}`)
	}))
	defer ts.Close()
	old := anthropicAPIURL
	anthropicAPIURL = ts.URL
	defer func() { anthropicAPIURL = old }()

	p := &AnthropicProvider{APIKey: "k", Model: "m", Client: ts.Client()}
	text, err := p.Complete(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 2, calls)
}
