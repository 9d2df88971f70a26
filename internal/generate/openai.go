// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/httputil"
)

// openAIAPIURL is the chat completions endpoint. Package-level var for test substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider calls the OpenAI chat completions API in JSON mode.
type OpenAIProvider struct {
	APIKey string
	Model  string
	Client *http.Client
}

type openAIRequest struct {
	Model               string               `json:"model"`
	Messages            []openAIMessage      `json:"messages"`
	ResponseFormat      openAIResponseFormat `json:"response_format"`
	MaxCompletionTokens int                  `json:"max_completion_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
}

// Name returns the provider identifier.
func (c *OpenAIProvider) Name() string { return ProviderOpenAI }

// Complete sends the system and user messages and returns the first choice.
func (c *OpenAIProvider) Complete(ctx context.Context, p Prompt) (string, error) {
	body, err := json.Marshal(openAIRequest{
		Model: c.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		ResponseFormat:      openAIResponseFormat{Type: "json_object"},
		MaxCompletionTokens: p.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(msg))
	}

	var or openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", fmt.Errorf("decoding OpenAI response: %w", err)
	}
	if len(or.Choices) == 0 || or.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return or.Choices[0].Message.Content, nil
}
