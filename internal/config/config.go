// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads types.Config through viper. Defaults are registered
// for every non-secret key so PAPER_GENIUS_* environment variables can
// override any of them; secrets from a .secrets/ directory fill keys the
// configuration leaves unset.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/secrets"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "PAPER_GENIUS"

// secretKeys have no defaults, so they are bound to the environment
// explicitly.
var secretKeys = []string{
	"generation.api_key",
	"search.semantic_scholar_api_key",
	"search.openalex_email",
	"store.password",
}

// SetDefaults registers defaults for every non-secret setting.
func SetDefaults(v *viper.Viper, version string) {
	v.SetDefault("search.max_results", 20)
	v.SetDefault("search.timeout", "30s")
	v.SetDefault("search.user_agent", "paper-genius/"+version)
	v.SetDefault("search.backends", []string{"semantic_scholar"})
	v.SetDefault("search.inter_backend_delay", "0s")
	v.SetDefault("search.recency_bias_window", "17520h")

	v.SetDefault("generation.provider", "openai")
	v.SetDefault("generation.model", "")
	v.SetDefault("generation.profile", "comprehensive")
	v.SetDefault("generation.max_retries", 3)
	v.SetDefault("generation.timeout", "3m")
	v.SetDefault("generation.project_id", "")
	v.SetDefault("generation.region", "us-central1")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "paper-genius.db")
	v.SetDefault("store.addr", "")
	v.SetDefault("store.db", 0)
	v.SetDefault("store.key_prefix", "paper-genius")
	v.SetDefault("store.project_id", "")
	v.SetDefault("store.collection", "papers")

	v.SetDefault("render.surface", "fpdf")
	v.SetDefault("render.concurrency", 4)
	v.SetDefault("render.output_dir", "output/papers")

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.prefix", "papers/")
}

// BindEnv maps store.driver to PAPER_GENIUS_STORE_DRIVER and so on.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range secretKeys {
		_ = v.BindEnv(key)
	}
}

// Load merges s into v and decodes the full configuration.
func Load(v *viper.Viper, s map[string]string) (types.Config, error) {
	secrets.Bind(s, v.GetString("generation.provider"), v.IsSet, v.Set)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}
