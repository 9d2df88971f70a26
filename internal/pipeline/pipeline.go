// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline ties search, generation, storage, and rendering together.
// The HTTP server, the cloud function, and the CLI all drive papers through
// a Service.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/archive"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/generate"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/search"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/store"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// ErrInvalidRequest marks caller mistakes such as an empty topic.
var ErrInvalidRequest = errors.New("invalid request")

// ReferenceLimit is the number of references fetched per generated paper.
const ReferenceLimit = 20

// ReferenceFetcher finds references for a topic.
type ReferenceFetcher interface {
	FetchReferences(ctx context.Context, topic string) ([]types.Reference, error)
}

// Drafter writes the paper body for a topic and its references.
type Drafter interface {
	Generate(ctx context.Context, topic string, refs []types.Reference, style types.CitationStyle) (generate.Draft, error)
}

// Renderer turns a paper into PDF bytes.
type Renderer interface {
	Render(p types.Paper) ([]byte, error)
}

// SearchReferences fetches references through the search backends.
type SearchReferences struct {
	Backends []search.Backend
	Config   types.SearchConfig
	// Warnings receives per-backend failure messages. Nil discards them.
	Warnings io.Writer
}

// FetchReferences runs a search capped at ReferenceLimit results.
func (s SearchReferences) FetchReferences(ctx context.Context, topic string) ([]types.Reference, error) {
	cfg := s.Config
	if cfg.MaxResults <= 0 || cfg.MaxResults > ReferenceLimit {
		cfg.MaxResults = ReferenceLimit
	}
	w := s.Warnings
	if w == nil {
		w = io.Discard
	}
	return search.FetchReferences(ctx, topic, s.Backends, cfg, w)
}

// Service runs the generate-store-render pipeline. Archiver and Logger are
// optional.
type Service struct {
	References ReferenceFetcher
	Drafter    Drafter
	Store      store.Store
	Renderer   Renderer
	Archiver   archive.Archiver
	Logger     *slog.Logger
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Generate searches for references on topic, drafts a paper citing them in
// style, and stores it. An empty style selects APA.
func (s *Service) Generate(ctx context.Context, topic, style string) (types.Paper, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return types.Paper{}, fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	}
	cs, err := types.ParseCitationStyle(style)
	if err != nil {
		return types.Paper{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	logCtx := s.log().With("topic", topic, "style", string(cs))
	refs, err := s.References.FetchReferences(ctx, topic)
	if err != nil {
		logCtx.Warn("reference search failed", "error", err)
		return types.Paper{}, err
	}
	logCtx.Info("fetched references", "count", len(refs))

	return s.GenerateWithReferences(ctx, topic, refs, cs)
}

// GenerateWithReferences drafts and stores a paper for references already
// in hand, such as those saved in a query file.
func (s *Service) GenerateWithReferences(ctx context.Context, topic string, refs []types.Reference, style types.CitationStyle) (types.Paper, error) {
	if len(refs) == 0 {
		return types.Paper{}, search.ErrNoReferences
	}
	if style == "" {
		style = types.DefaultCitationStyle
	}
	draft, err := s.Drafter.Generate(ctx, topic, refs, style)
	if err != nil {
		return types.Paper{}, fmt.Errorf("generating paper: %w", err)
	}
	saved, err := s.Store.Create(ctx, draft.Paper(topic, refs, style))
	if err != nil {
		return types.Paper{}, fmt.Errorf("saving paper: %w", err)
	}
	s.log().Info("paper generated", "paperId", saved.ID, "title", saved.Title, "references", len(refs))
	return saved, nil
}

// Render loads the paper with id and returns its PDF and a download
// filename ending in ".pdf".
func (s *Service) Render(ctx context.Context, id string) ([]byte, string, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.RenderPaper(ctx, p)
	if err != nil {
		return nil, "", err
	}
	return data, SafeFilename(p.Title) + ".pdf", nil
}

// RenderPaper renders p and archives the result when an Archiver is set
// and p has an ID. Archive failures are logged, not returned.
func (s *Service) RenderPaper(ctx context.Context, p types.Paper) ([]byte, error) {
	data, err := s.Renderer.Render(p)
	if err != nil {
		return nil, fmt.Errorf("rendering paper %s: %w", p.ID, err)
	}
	if s.Archiver != nil && p.ID != "" {
		if uri, aerr := s.Archiver.Archive(ctx, p.ID, data); aerr != nil {
			s.log().Error("archiving PDF failed", "paperId", p.ID, "error", aerr)
		} else {
			s.log().Debug("PDF archived", "paperId", p.ID, "uri", uri)
		}
	}
	return data, nil
}

// RenderAll renders every stored paper into dir, at most limit at a time.
// Files are named {id}.pdf. It returns the written paths in list order.
func (s *Service) RenderAll(ctx context.Context, dir string, limit int) ([]string, error) {
	papers, err := s.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if limit <= 0 {
		limit = 4
	}

	paths := make([]string, len(papers))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, p := range papers {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := s.RenderPaper(gctx, p)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, p.ID+".pdf")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	s.log().Info("rendered papers", "count", len(paths), "dir", dir)
	return paths, nil
}

var (
	unsafeFilenameChars = regexp.MustCompile(`(?i)[^a-z0-9\s-]`)
	filenameSpaces      = regexp.MustCompile(`\s+`)
)

const (
	maxFilenameLen  = 100
	defaultFilename = "research_paper"
)

// SafeFilename turns a title into a download-safe base name: characters
// other than ASCII letters, digits, whitespace, and '-' are removed, runs
// of whitespace become '_', and the result is lowercased and cut to 100
// bytes. An empty result becomes "research_paper".
func SafeFilename(title string) string {
	name := unsafeFilenameChars.ReplaceAllString(title, "")
	name = filenameSpaces.ReplaceAllString(name, "_")
	name = strings.ToLower(name)
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	if name == "" {
		return defaultFilename
	}
	return name
}
