// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/archive"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/generate"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/render"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/search"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/store"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Components selects which parts of a Service Build wires up. Commands
// that only read the store skip search and generation so they do not need
// API keys.
type Components struct {
	Generation bool
	Render     bool
}

// All wires every component.
var All = Components{Generation: true, Render: true}

// Build assembles a Service from configuration. Backend warnings from
// searches go to warnings. Call Close on the result to release the store
// and any cloud clients.
func Build(ctx context.Context, cfg types.Config, c Components, warnings io.Writer, logger *slog.Logger) (*Service, error) {
	svc := &Service{Logger: logger}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	svc.Store = st

	if c.Generation {
		backends, err := search.NewBackends(&http.Client{Timeout: cfg.Search.Timeout}, cfg.Search)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.References = SearchReferences{Backends: backends, Config: cfg.Search, Warnings: warnings}

		gen, err := generate.New(ctx, cfg.Generation, &http.Client{Timeout: cfg.Generation.Timeout})
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.Drafter = gen
	}

	if c.Render {
		engine, err := render.New(cfg.Render.Surface)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.Renderer = engine

		gcs, err := archive.New(ctx, cfg.Archive)
		if err != nil {
			svc.Close()
			return nil, err
		}
		if gcs != nil {
			svc.Archiver = gcs
		}
	}
	return svc, nil
}

// Close releases every component that holds resources.
func (s *Service) Close() error {
	var errs []error
	for _, v := range []any{s.Store, s.Drafter, s.Archiver} {
		if c, ok := v.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
