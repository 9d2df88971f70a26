// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main registers the paper API as a Cloud Function. Configuration
// comes from PAPER_GENIUS_* environment variables; set
// PAPER_GENIUS_STORE_DRIVER=firestore for a durable store.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/spf13/viper"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/config"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/pipeline"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/secrets"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/server"
)

var version = "dev"

var (
	handler http.Handler
	once    sync.Once
	initErr error
)

func init() {
	functions.HTTP("PaperGenius", handlePaperGenius)
}

// main is required by the Go Functions Framework.
func main() {}

func handlePaperGenius(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		handler, initErr = newHandler(context.Background())
	})
	if initErr != nil {
		slog.Error("paper-genius initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	handler.ServeHTTP(w, r)
}

func newHandler(ctx context.Context) (http.Handler, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	v := viper.New()
	config.SetDefaults(v, version)
	config.BindEnv(v)

	dir := os.Getenv("PAPER_GENIUS_SECRETS_DIR")
	if dir == "" {
		dir = ".secrets/"
	}
	s, err := secrets.Load(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(v, s)
	if err != nil {
		return nil, err
	}
	svc, err := pipeline.Build(ctx, cfg, pipeline.All, os.Stderr, logger)
	if err != nil {
		return nil, err
	}
	return server.New(svc, logger).Handler(), nil
}
