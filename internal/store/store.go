// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists generated papers. Store is a small capability
// interface; backends are chosen by StoreConfig.Driver so the HTTP API, the
// CLI, and the cloud function share one storage contract.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// ErrNotFound is returned when no paper has the requested ID.
var ErrNotFound = errors.New("paper not found")

// Store holds generated papers keyed by ID.
type Store interface {
	// Get returns the paper with id or ErrNotFound.
	Get(ctx context.Context, id string) (types.Paper, error)
	// List returns all papers, newest GeneratedAt first.
	List(ctx context.Context) ([]types.Paper, error)
	// Create assigns a fresh ID and timestamp to p, saves it, and returns
	// the saved copy.
	Create(ctx context.Context, p types.Paper) (types.Paper, error)
	// Delete removes the paper with id or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	Close() error
}

// Driver names accepted in StoreConfig.Driver.
const (
	DriverMemory    = "memory"
	DriverSQLite    = "sqlite"
	DriverMySQL     = "mysql"
	DriverPostgres  = "postgres"
	DriverRedis     = "redis"
	DriverFirestore = "firestore"
)

// Open connects to the store named by cfg.Driver. An empty driver selects
// the in-memory store.
func Open(ctx context.Context, cfg types.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		path := cfg.DSN
		if path == "" {
			path = "paper-genius.db"
		}
		return NewSQLite(path)
	case DriverMySQL:
		return NewMySQL(ctx, cfg.DSN)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.DSN)
	case DriverRedis:
		return NewRedis(ctx, cfg.Addr, cfg.Password, cfg.DB, cfg.KeyPrefix)
	case DriverFirestore:
		return NewFirestore(ctx, cfg.ProjectID, cfg.Collection)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// now is the clock used for GeneratedAt. Truncated to microseconds so every
// backend round-trips the value exactly.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// prepare stamps a new paper with an ID and creation time.
func prepare(p types.Paper) types.Paper {
	p.ID = uuid.NewString()
	p.GeneratedAt = now()
	if p.CitationStyle == "" {
		p.CitationStyle = types.DefaultCitationStyle
	}
	return p
}

// sortNewest orders papers by GeneratedAt descending, breaking ties by ID.
func sortNewest(papers []types.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		if !papers[i].GeneratedAt.Equal(papers[j].GeneratedAt) {
			return papers[i].GeneratedAt.After(papers[j].GeneratedAt)
		}
		return papers[i].ID < papers[j].ID
	})
}

// Export formats accepted by Export.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes every paper in s to w as a YAML or JSON list.
func Export(ctx context.Context, s Store, format string, w io.Writer) error {
	papers, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("listing papers for export: %w", err)
	}
	if papers == nil {
		papers = []types.Paper{}
	}

	switch format {
	case "", FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(papers); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(papers); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q: use %s or %s", format, FormatYAML, FormatJSON)
	}
	return nil
}
