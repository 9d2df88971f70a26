// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/config"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/pipeline"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// openService loads configuration and builds the pipeline components a
// command needs.
func openService(ctx context.Context, c pipeline.Components) (*pipeline.Service, types.Config, error) {
	cfg, err := config.Load(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, cfg, err
	}
	svc, err := pipeline.Build(ctx, cfg, c, os.Stderr, slog.Default())
	if err != nil {
		return nil, cfg, err
	}
	return svc, cfg, nil
}
