// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of
// plain-text files. Each file is one secret: the filename is the key name
// and the trimmed contents are the value.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Key files recognized by Bind.
const (
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	OpenAlexEmail         = "openalex-email"
	OpenAIAPIKey          = "openai-api-key"
	AnthropicAPIKey       = "anthropic-api-key"
	StorePassword         = "store-password"
)

// configKeys maps each key file to the configuration key it fills.
var configKeys = map[string]string{
	SemanticScholarAPIKey: "search.semantic_scholar_api_key",
	OpenAlexEmail:         "search.openalex_email",
	StorePassword:         "store.password",
}

// providerKeys maps a generation provider to the key file holding its API key.
var providerKeys = map[string]string{
	"openai":    OpenAIAPIKey,
	"anthropic": AnthropicAPIKey,
}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Bind copies recognized secrets into configuration through set, which is
// typically viper.Set. provider picks which AI key fills
// generation.api_key. Keys are only set when isSet reports the
// configuration does not already carry a value.
func Bind(secrets map[string]string, provider string, isSet func(key string) bool, set func(key string, value any)) {
	for file, key := range configKeys {
		if v, ok := secrets[file]; ok && !isSet(key) {
			set(key, v)
		}
	}
	if file, ok := providerKeys[provider]; ok {
		if v, ok := secrets[file]; ok && !isSet("generation.api_key") {
			set("generation.api_key", v)
		}
	}
}
