// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// VertexProvider calls a Gemini model through Vertex AI.
type VertexProvider struct {
	client *genai.Client
	model  string
}

// NewVertexProvider connects to Vertex AI in projectID and region.
func NewVertexProvider(ctx context.Context, projectID, region, model string) (*VertexProvider, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("vertex provider: project_id and region must be set")
	}
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &VertexProvider{client: client, model: model}, nil
}

// Name returns the provider identifier.
func (v *VertexProvider) Name() string { return ProviderVertex }

// Complete runs one GenerateContent call with JSON output forced.
func (v *VertexProvider) Complete(ctx context.Context, p Prompt) (string, error) {
	model := v.client.GenerativeModel(v.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(p.System)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
	}
	model.SetMaxOutputTokens(int32(p.MaxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		return "", fmt.Errorf("vertex generate: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Close releases the underlying client.
func (v *VertexProvider) Close() error {
	return v.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
