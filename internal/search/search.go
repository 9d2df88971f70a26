// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries academic APIs for references to cite. Results from
// several backends are merged, deduplicated, ranked, and converted to
// types.Reference values with placeholder defaults for missing metadata.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Backend searches a single academic API.
type Backend interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// Query holds the search parameters.
type Query struct {
	FreeText string
	Author   string
	Keywords []string
	DateFrom time.Time
	DateTo   time.Time
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.FreeText) == "" && q.Author == "" && len(q.Keywords) == 0
}

// Backend names accepted in SearchConfig.Backends.
const (
	BackendSemanticScholar = "semantic_scholar"
	BackendOpenAlex        = "openalex"
	BackendArxiv           = "arxiv"
)

// NewBackends builds the backends named in cfg.Backends, defaulting to
// Semantic Scholar alone.
func NewBackends(client *http.Client, cfg types.SearchConfig) ([]Backend, error) {
	names := cfg.Backends
	if len(names) == 0 {
		names = []string{BackendSemanticScholar}
	}

	var backends []Backend
	for _, name := range names {
		switch strings.TrimSpace(name) {
		case BackendSemanticScholar:
			backends = append(backends, &SemanticScholarBackend{Client: client, APIKey: cfg.SemanticScholarAPIKey})
		case BackendOpenAlex:
			backends = append(backends, &OpenAlexBackend{Client: client, Email: cfg.OpenAlexEmail})
		case BackendArxiv:
			backends = append(backends, &ArxivBackend{Client: client})
		default:
			return nil, fmt.Errorf("unknown search backend %q", name)
		}
	}
	return backends, nil
}

// SearchOutput holds the results and dedup statistics.
type SearchOutput struct {
	Results       []types.SearchResult
	DupsRemoved   int
	BackendErrors []string
}

// Search fans out the query to all backends concurrently, deduplicates
// results, ranks them, and returns the top cfg.MaxResults.
func Search(ctx context.Context, query Query, backends []Backend, cfg types.SearchConfig, recencyBias bool, w io.Writer) (SearchOutput, error) {
	if query.IsEmpty() {
		return SearchOutput{}, fmt.Errorf("query is empty: provide a research topic or structured parameters")
	}
	if len(backends) == 0 {
		return SearchOutput{}, fmt.Errorf("no search backends configured")
	}

	type backendResult struct {
		results []types.SearchResult
		err     error
		name    string
	}

	ch := make(chan backendResult, len(backends))
	var wg sync.WaitGroup

	for i, b := range backends {
		if i > 0 && cfg.InterBackendDelay > 0 {
			time.Sleep(cfg.InterBackendDelay)
		}
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			results, err := b.Search(ctx, query, cfg)
			ch <- backendResult{results: results, err: err, name: b.Name()}
		}(b)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.SearchResult
	var backendErrors []string
	for br := range ch {
		if br.err != nil {
			backendErrors = append(backendErrors, fmt.Sprintf("%s: %v", br.name, br.err))
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", br.name, br.err)
			continue
		}
		all = append(all, br.results...)
	}

	if len(all) == 0 && len(backendErrors) == len(backends) {
		return SearchOutput{BackendErrors: backendErrors}, fmt.Errorf("all search backends failed: %s", strings.Join(backendErrors, "; "))
	}

	deduped, removed := deduplicate(all)

	if recencyBias && cfg.RecencyBiasWindow > 0 {
		applyRecencyBias(deduped, cfg.RecencyBiasWindow)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].RelevanceScore > deduped[j].RelevanceScore
	})

	if cfg.MaxResults > 0 && len(deduped) > cfg.MaxResults {
		deduped = deduped[:cfg.MaxResults]
	}

	return SearchOutput{
		Results:       deduped,
		DupsRemoved:   removed,
		BackendErrors: backendErrors,
	}, nil
}

// ErrNoReferences is returned when a topic yields no references at all.
var ErrNoReferences = errors.New("no references found for this topic")

// Placeholders for metadata a source did not report.
const (
	UntitledPlaceholder = "Untitled"
	AuthorPlaceholder   = "Unknown Author"
)

// FetchReferences searches for topic and converts the ranked results to
// references. It fails with ErrNoReferences when nothing is found, including
// when every backend failed.
func FetchReferences(ctx context.Context, topic string, backends []Backend, cfg types.SearchConfig, w io.Writer) ([]types.Reference, error) {
	out, err := Search(ctx, Query{FreeText: topic}, backends, cfg, false, w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoReferences, err)
	}
	if len(out.Results) == 0 {
		return nil, ErrNoReferences
	}
	return ToReferences(out.Results, time.Now().Year()), nil
}

// ToReferences converts search results to references. A missing title
// becomes "Untitled", an empty author list becomes "Unknown Author", and a
// missing date becomes currentYear.
func ToReferences(results []types.SearchResult, currentYear int) []types.Reference {
	refs := make([]types.Reference, 0, len(results))
	for _, r := range results {
		ref := types.Reference{
			Title:   strings.TrimSpace(r.Title),
			Authors: r.Authors,
			Year:    currentYear,
			DOI:     r.DOI,
			URL:     r.URL,
		}
		if ref.Title == "" {
			ref.Title = UntitledPlaceholder
		}
		if len(ref.Authors) == 0 {
			ref.Authors = []string{AuthorPlaceholder}
		}
		if !r.Date.IsZero() {
			ref.Year = r.Date.Year()
		}
		refs = append(refs, ref)
	}
	return refs
}

// deduplicate merges results that share an identifier, DOI, or normalized title.
func deduplicate(results []types.SearchResult) ([]types.SearchResult, int) {
	seen := make(map[string]int) // dedup key → index in deduped
	var deduped []types.SearchResult
	removed := 0

	for _, r := range results {
		keys := dedupKeys(r)

		idx, dup := -1, false
		for _, k := range keys {
			if i, ok := seen[k]; ok {
				idx, dup = i, true
				break
			}
		}
		if dup {
			mergeInto(&deduped[idx], r)
			removed++
			for _, k := range dedupKeys(deduped[idx]) {
				seen[k] = idx
			}
			continue
		}

		idx = len(deduped)
		deduped = append(deduped, r)
		for _, k := range keys {
			seen[k] = idx
		}
	}
	return deduped, removed
}

// dedupKeys returns every key a result can be matched on.
func dedupKeys(r types.SearchResult) []string {
	var keys []string
	if r.Identifier != "" {
		keys = append(keys, "id:"+strings.ToLower(r.Identifier))
	}
	if r.DOI != "" {
		keys = append(keys, "id:"+strings.ToLower(r.DOI))
	}
	if t := normalizeTitle(r.Title); t != "" {
		keys = append(keys, "title:"+t)
	}
	return keys
}

// mergeInto fills empty fields of dst from src and keeps the higher score.
func mergeInto(dst *types.SearchResult, src types.SearchResult) {
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if len(dst.Authors) == 0 && len(src.Authors) > 0 {
		dst.Authors = src.Authors
	}
	if dst.Abstract == "" && src.Abstract != "" {
		dst.Abstract = src.Abstract
	}
	if dst.Date.IsZero() && !src.Date.IsZero() {
		dst.Date = src.Date
	}
	if dst.DOI == "" && src.DOI != "" {
		dst.DOI = src.DOI
	}
	if dst.URL == "" && src.URL != "" {
		dst.URL = src.URL
	}
	if src.RelevanceScore > dst.RelevanceScore {
		dst.RelevanceScore = src.RelevanceScore
	}
	if dst.Source != src.Source && !strings.Contains(dst.Source, src.Source) {
		dst.Source = dst.Source + "," + src.Source
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// positionScore spreads relevance from 1.0 (first) to 0.1 (last) by rank.
func positionScore(i, total int) float64 {
	if total > 1 {
		return 1.0 - float64(i)/float64(total-1)*0.9
	}
	return 1.0
}

// applyRecencyBias boosts scores for papers published within the window.
func applyRecencyBias(results []types.SearchResult, window time.Duration) {
	now := time.Now()
	for i := range results {
		if results[i].Date.IsZero() {
			continue
		}
		age := now.Sub(results[i].Date)
		if age <= window {
			boost := 0.2 * (1.0 - float64(age)/float64(window))
			results[i].RelevanceScore = math.Min(1.0, results[i].RelevanceScore+boost)
		}
	}
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out SearchOutput, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Year", "Score", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range out.Results {
		year := ""
		if !r.Date.IsZero() {
			year = fmt.Sprintf("%d", r.Date.Year())
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-6.2f  %s\n",
			i+1, truncate(r.Title, 60), formatAuthors(r.Authors), year, r.RelevanceScore, r.Source)
	}

	fmt.Fprintf(w, "\n%d results", len(out.Results))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out SearchOutput, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
