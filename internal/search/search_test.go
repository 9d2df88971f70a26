// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	name    string
	results []types.SearchResult
	err     error
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Search(_ context.Context, _ Query, _ types.SearchConfig) ([]types.SearchResult, error) {
	return m.results, m.err
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResults:        20,
		RecencyBiasWindow: 2 * 365 * 24 * time.Hour,
	}
}

// --- Query ---

func TestQueryIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{"zero value", Query{}, true},
		{"whitespace only", Query{FreeText: "   "}, true},
		{"free text", Query{FreeText: "graph neural networks"}, false},
		{"author", Query{Author: "Hinton"}, false},
		{"keywords", Query{Keywords: []string{"ml"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJoinQuery(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"free text only", Query{FreeText: "transformer models"}, "transformer models"},
		{"author only", Query{Author: "Vaswani"}, "Vaswani"},
		{"all fields", Query{FreeText: "attention", Author: "Vaswani", Keywords: []string{"nlp"}}, "attention Vaswani nlp"},
		{"empty", Query{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinQuery(tt.query); got != tt.want {
				t.Errorf("joinQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- NewBackends ---

func TestNewBackends(t *testing.T) {
	backends, err := NewBackends(nil, types.SearchConfig{})
	if err != nil {
		t.Fatalf("NewBackends: %v", err)
	}
	if len(backends) != 1 || backends[0].Name() != BackendSemanticScholar {
		t.Errorf("default backends = %v, want semantic_scholar only", backends)
	}

	backends, err = NewBackends(nil, types.SearchConfig{Backends: []string{"openalex", "arxiv"}})
	if err != nil {
		t.Fatalf("NewBackends: %v", err)
	}
	if len(backends) != 2 || backends[0].Name() != BackendOpenAlex || backends[1].Name() != BackendArxiv {
		t.Errorf("backends = %v, want openalex, arxiv", backends)
	}

	if _, err := NewBackends(nil, types.SearchConfig{Backends: []string{"patents"}}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

// --- Search ---

func TestSearchEmptyQuery(t *testing.T) {
	var buf bytes.Buffer
	_, err := Search(context.Background(), Query{}, []Backend{&mockBackend{name: "mock"}}, testCfg(), false, &buf)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty query error, got: %v", err)
	}
}

func TestSearchNoBackends(t *testing.T) {
	var buf bytes.Buffer
	_, err := Search(context.Background(), Query{FreeText: "test"}, nil, testCfg(), false, &buf)
	if err == nil || !strings.Contains(err.Error(), "no search backends") {
		t.Errorf("expected no backends error, got: %v", err)
	}
}

func TestSearchContinuesAfterBackendFailure(t *testing.T) {
	failing := &mockBackend{name: "failing", err: fmt.Errorf("network error")}
	working := &mockBackend{
		name: "working",
		results: []types.SearchResult{
			{Identifier: "10.1/a", Title: "Paper A", Source: "working", RelevanceScore: 0.9},
		},
	}

	var buf bytes.Buffer
	out, err := Search(context.Background(), Query{FreeText: "test"}, []Backend{failing, working}, testCfg(), false, &buf)
	if err != nil {
		t.Fatalf("Search should not fail entirely: %v", err)
	}
	if len(out.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(out.Results))
	}
	if len(out.BackendErrors) != 1 {
		t.Errorf("len(BackendErrors) = %d, want 1", len(out.BackendErrors))
	}
	if !strings.Contains(buf.String(), "warning:") {
		t.Error("output should contain warning about failed backend")
	}
}

func TestSearchAllBackendsFail(t *testing.T) {
	var buf bytes.Buffer
	_, err := Search(context.Background(), Query{FreeText: "test"},
		[]Backend{&mockBackend{name: "a", err: errors.New("down")}}, testCfg(), false, &buf)
	if err == nil || !strings.Contains(err.Error(), "all search backends failed") {
		t.Errorf("expected all-failed error, got: %v", err)
	}
}

func TestSearchDedupAndRank(t *testing.T) {
	backend1 := &mockBackend{
		name: "b1",
		results: []types.SearchResult{
			{Identifier: "10.1/a", Title: "Paper A", Source: "b1", RelevanceScore: 0.9},
			{Identifier: "10.1/c", Title: "Paper C", Source: "b1", RelevanceScore: 0.6},
		},
	}
	backend2 := &mockBackend{
		name: "b2",
		results: []types.SearchResult{
			{Identifier: "10.1/A", Title: "Paper A (dup)", Source: "b2", RelevanceScore: 0.8},
			{Identifier: "10.1/b", Title: "Paper B", Source: "b2", RelevanceScore: 0.95},
		},
	}

	var buf bytes.Buffer
	out, err := Search(context.Background(), Query{FreeText: "test"}, []Backend{backend1, backend2}, testCfg(), false, &buf)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if out.DupsRemoved != 1 {
		t.Errorf("DupsRemoved = %d, want 1", out.DupsRemoved)
	}
	if len(out.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(out.Results))
	}
	if out.Results[0].Title != "Paper B" {
		t.Errorf("Results[0].Title = %q, want Paper B", out.Results[0].Title)
	}
	for i := 1; i < len(out.Results); i++ {
		if out.Results[i].RelevanceScore > out.Results[i-1].RelevanceScore {
			t.Errorf("results not sorted at %d", i)
		}
	}
}

func TestSearchMaxResults(t *testing.T) {
	var results []types.SearchResult
	for i := 0; i < 30; i++ {
		results = append(results, types.SearchResult{
			Identifier:     fmt.Sprintf("id-%d", i),
			Title:          fmt.Sprintf("Paper %d", i),
			RelevanceScore: float64(30-i) / 30,
		})
	}

	cfg := testCfg()
	cfg.MaxResults = 5
	var buf bytes.Buffer
	out, err := Search(context.Background(), Query{FreeText: "x"}, []Backend{&mockBackend{name: "m", results: results}}, cfg, false, &buf)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out.Results) != 5 {
		t.Errorf("len(Results) = %d, want 5", len(out.Results))
	}
}

// --- Dedup ---

func TestDeduplicateByDOIAcrossIdentifiers(t *testing.T) {
	results := []types.SearchResult{
		{Identifier: "2301.07041", Title: "Sparse Attention", Source: "arxiv"},
		{Identifier: "abc123", DOI: "10.48550/arXiv.2301.07041", Title: "Another title", Source: "semantic_scholar"},
		{Identifier: "10.48550/arxiv.2301.07041", Title: "Third", URL: "https://openalex.org/W1", Source: "openalex"},
	}
	deduped, removed := deduplicate(results)
	if removed != 1 || len(deduped) != 2 {
		t.Fatalf("removed = %d, len = %d; want 1, 2", removed, len(deduped))
	}
	if deduped[1].URL != "https://openalex.org/W1" {
		t.Errorf("URL not merged: %q", deduped[1].URL)
	}
}

func TestDeduplicateByTitle(t *testing.T) {
	results := []types.SearchResult{
		{Identifier: "a", Title: "Attention Is All You Need", Source: "arxiv"},
		{Identifier: "b", Title: "attention is all you need!", DOI: "10.1/x", Source: "openalex"},
	}
	deduped, removed := deduplicate(results)
	if removed != 1 || len(deduped) != 1 {
		t.Fatalf("removed = %d, len = %d; want 1, 1", removed, len(deduped))
	}
	if deduped[0].DOI != "10.1/x" {
		t.Errorf("DOI = %q, want merged 10.1/x", deduped[0].DOI)
	}
	if deduped[0].Source != "arxiv,openalex" {
		t.Errorf("Source = %q, want arxiv,openalex", deduped[0].Source)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Hello, World!", "hello world"},
		{"  Spaced   Out  ", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPositionScore(t *testing.T) {
	if got := positionScore(0, 1); got != 1.0 {
		t.Errorf("single = %f, want 1.0", got)
	}
	if got := positionScore(0, 10); got != 1.0 {
		t.Errorf("first = %f, want 1.0", got)
	}
	if got := positionScore(9, 10); got < 0.0999 || got > 0.1001 {
		t.Errorf("last = %f, want 0.1", got)
	}
}

func TestApplyRecencyBias(t *testing.T) {
	results := []types.SearchResult{
		{Title: "recent", Date: time.Now().Add(-24 * time.Hour), RelevanceScore: 0.5},
		{Title: "old", Date: time.Now().AddDate(-10, 0, 0), RelevanceScore: 0.5},
		{Title: "undated", RelevanceScore: 0.5},
	}
	applyRecencyBias(results, 2*365*24*time.Hour)
	if results[0].RelevanceScore <= 0.5 {
		t.Errorf("recent score = %f, want boosted", results[0].RelevanceScore)
	}
	if results[1].RelevanceScore != 0.5 || results[2].RelevanceScore != 0.5 {
		t.Error("old or undated results should not be boosted")
	}
}

// --- References ---

func TestToReferencesPlaceholders(t *testing.T) {
	results := []types.SearchResult{
		{Title: "Graph Nets", Authors: []string{"A. Lee"}, Date: time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC), DOI: "10.1/g", URL: "https://x"},
		{Title: "  "},
	}
	refs := ToReferences(results, 2026)
	if len(refs) != 2 {
		t.Fatalf("len = %d, want 2", len(refs))
	}
	if refs[0].Year != 2019 || refs[0].DOI != "10.1/g" || refs[0].URL != "https://x" {
		t.Errorf("refs[0] = %+v", refs[0])
	}
	if refs[1].Title != UntitledPlaceholder {
		t.Errorf("Title = %q, want %q", refs[1].Title, UntitledPlaceholder)
	}
	if len(refs[1].Authors) != 1 || refs[1].Authors[0] != AuthorPlaceholder {
		t.Errorf("Authors = %v, want [%s]", refs[1].Authors, AuthorPlaceholder)
	}
	if refs[1].Year != 2026 {
		t.Errorf("Year = %d, want 2026", refs[1].Year)
	}
}

func TestFetchReferences(t *testing.T) {
	var buf bytes.Buffer
	b := &mockBackend{name: "m", results: []types.SearchResult{{Identifier: "x", Title: "T", Authors: []string{"A"}}}}
	refs, err := FetchReferences(context.Background(), "topic", []Backend{b}, testCfg(), &buf)
	if err != nil {
		t.Fatalf("FetchReferences: %v", err)
	}
	if len(refs) != 1 || refs[0].Title != "T" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestFetchReferencesNone(t *testing.T) {
	var buf bytes.Buffer
	_, err := FetchReferences(context.Background(), "topic", []Backend{&mockBackend{name: "m"}}, testCfg(), &buf)
	if !errors.Is(err, ErrNoReferences) {
		t.Errorf("err = %v, want ErrNoReferences", err)
	}

	_, err = FetchReferences(context.Background(), "topic", []Backend{&mockBackend{name: "m", err: errors.New("timeout")}}, testCfg(), &buf)
	if !errors.Is(err, ErrNoReferences) {
		t.Errorf("all backends failed: err = %v, want ErrNoReferences", err)
	}
}

// --- Output ---

func TestFormatTable(t *testing.T) {
	out := SearchOutput{
		Results: []types.SearchResult{
			{Title: "A Paper", Authors: []string{"Ada Lovelace", "Charles Babbage"}, Date: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), RelevanceScore: 0.9, Source: "openalex"},
		},
		DupsRemoved: 2,
	}
	var buf bytes.Buffer
	FormatTable(out, &buf)
	s := buf.String()
	for _, want := range []string{"A Paper", "Ada Lovelace et al.", "2021", "1 results", "2 duplicates removed"} {
		if !strings.Contains(s, want) {
			t.Errorf("table missing %q:\n%s", want, s)
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(SearchOutput{}, &buf)
	if !strings.Contains(buf.String(), "No results") {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	out := SearchOutput{Results: []types.SearchResult{{Identifier: "x", Title: "T", DOI: "10.1/t"}}}
	if err := FormatJSON(out, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	var got []types.SearchResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0].DOI != "10.1/t" {
		t.Errorf("got %+v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("a much longer string", 10); got != "a much ..." {
		t.Errorf("got %q", got)
	}
}
