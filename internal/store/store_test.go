// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

func testPaper(topic string) types.Paper {
	return types.Paper{
		ID:    "ignored",
		Topic: topic,
		Title: "On " + topic,
		Sections: types.Sections{
			Abstract: "Abstract.",
			Methods:  "",
		},
		References: []types.Reference{
			{Title: "Ref", Authors: []string{"A. Author"}, Year: 2021, DOI: "10.1/r"},
		},
		CitationStyle: types.StyleMLA,
	}
}

// stepClock makes now() advance one second per call.
func stepClock(t *testing.T) {
	t.Helper()
	old := now
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	n := 0
	now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	t.Cleanup(func() { now = old })
}

// exerciseStore runs the shared contract against s.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()
	stepClock(t)

	papers, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, papers)

	first, err := s.Create(ctx, testPaper("graphs"))
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", first.ID)
	assert.Len(t, first.ID, 36)
	assert.False(t, first.GeneratedAt.IsZero())

	second, err := s.Create(ctx, testPaper("lattices"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Title, got.Title)
	assert.Equal(t, first.References, got.References)
	assert.Equal(t, types.StyleMLA, got.CitationStyle)
	assert.True(t, first.GeneratedAt.Equal(got.GeneratedAt))

	papers, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, second.ID, papers[0].ID, "newest first")
	assert.Equal(t, first.ID, papers[1].ID)

	require.NoError(t, s.Delete(ctx, first.ID))
	_, err = s.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, first.ID), ErrNotFound)

	papers, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, papers, 1)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "db", "papers.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	p, err := s.Create(context.Background(), testPaper("persist"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "On persist", got.Title)
}

// Network-backed stores run only when a server is provided.

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("PAPER_GENIUS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PAPER_GENIUS_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedis(context.Background(), addr, "", 0, "paper-genius-test-"+time.Now().Format("150405.000000"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PAPER_GENIUS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PAPER_GENIUS_TEST_POSTGRES_DSN not set")
	}
	s, err := NewPostgres(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.pool.Exec(context.Background(), `TRUNCATE papers`)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("PAPER_GENIUS_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("PAPER_GENIUS_TEST_MYSQL_DSN not set")
	}
	s, err := NewMySQL(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.db.Exec(`DELETE FROM papers`)
	require.NoError(t, err)
	exerciseStore(t, s)
}

// --- Open ---

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, types.StoreConfig{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, types.StoreConfig{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQL{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, types.StoreConfig{Driver: "mongo"})
	assert.ErrorContains(t, err, "unknown store driver")

	_, err = Open(ctx, types.StoreConfig{Driver: DriverPostgres})
	assert.ErrorContains(t, err, "dsn must be set")

	_, err = Open(ctx, types.StoreConfig{Driver: DriverFirestore})
	assert.ErrorContains(t, err, "project_id must be set")
}

// --- Export ---

func TestExport(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	_, err := s.Create(ctx, testPaper("export"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(ctx, s, FormatJSON, &buf))
	var fromJSON []types.Paper
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "On export", fromJSON[0].Title)
	assert.Contains(t, buf.String(), `"citationStyle": "MLA"`)

	buf.Reset()
	require.NoError(t, Export(ctx, s, "", &buf))
	var fromYAML []types.Paper
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "Abstract.", fromYAML[0].Abstract)

	assert.ErrorContains(t, Export(ctx, s, "csv", &buf), "unknown export format")
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(context.Background(), NewMemory(), FormatJSON, &buf))
	assert.Equal(t, "[]\n", buf.String())
}
