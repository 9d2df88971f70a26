// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Provider names accepted in GenerationConfig.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderVertex    = "vertex"
)

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-5",
	ProviderAnthropic: "claude-sonnet-4-5",
	ProviderVertex:    "gemini-2.5-pro",
}

// NewProvider builds the provider named by cfg. An empty provider selects
// openai and an empty model selects the provider's default.
func NewProvider(ctx context.Context, cfg types.GenerationConfig, client *http.Client) (Provider, error) {
	name := cfg.Provider
	if name == "" {
		name = ProviderOpenAI
	}
	model := cfg.Model
	if model == "" {
		model = defaultModels[name]
	}

	switch name {
	case ProviderOpenAI, ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s provider: no API key configured (set generation.api_key or add a key file to .secrets/)", name)
		}
		if name == ProviderOpenAI {
			return &OpenAIProvider{APIKey: cfg.APIKey, Model: model, Client: client}, nil
		}
		return &AnthropicProvider{APIKey: cfg.APIKey, Model: model, Client: client}, nil
	case ProviderVertex:
		return NewVertexProvider(ctx, cfg.ProjectID, cfg.Region, model)
	default:
		return nil, fmt.Errorf("unknown generation provider %q: use %s, %s, or %s", name, ProviderOpenAI, ProviderAnthropic, ProviderVertex)
	}
}

// New builds a Generator from configuration.
func New(ctx context.Context, cfg types.GenerationConfig, client *http.Client) (*Generator, error) {
	profile, err := LookupProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}
	p, err := NewProvider(ctx, cfg, client)
	if err != nil {
		return nil, err
	}
	return NewGenerator(p, profile, cfg.MaxRetries), nil
}
