// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/httputil"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// IdentifierType classifies a work identifier.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeArxiv
	TypeDOI
)

func (t IdentifierType) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeDOI:
		return "doi"
	default:
		return "unknown"
	}
}

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works/"

var (
	// arxivIDPattern matches "2301.07041", "arXiv:2301.07041", "2301.07041v2".
	arxivIDPattern = regexp.MustCompile(`^(?i:arxiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)
	// doiPattern matches bare DOIs such as "10.1145/1234567.1234568".
	doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
)

// Classify determines the identifier type and returns its normalized form:
// arXiv IDs lose their prefix and version, DOIs lose any doi.org URL
// prefix.
func Classify(identifier string) (IdentifierType, string) {
	id := strings.TrimSpace(identifier)
	for _, p := range []string{doiPrefix, "http://doi.org/", "doi:"} {
		if len(id) > len(p) && strings.EqualFold(id[:len(p)], p) {
			id = id[len(p):]
			break
		}
	}
	if m := arxivIDPattern.FindStringSubmatch(id); m != nil {
		return TypeArxiv, m[1]
	}
	if doiPattern.MatchString(id) {
		return TypeDOI, id
	}
	return TypeUnknown, id
}

// Resolver looks up a single work by DOI (CrossRef) or arXiv ID.
type Resolver struct {
	Client *http.Client
}

// Resolve fetches metadata for identifier.
func (r *Resolver) Resolve(ctx context.Context, identifier string, cfg types.SearchConfig) (types.SearchResult, error) {
	idType, id := Classify(identifier)
	switch idType {
	case TypeDOI:
		return r.resolveDOI(ctx, id, cfg)
	case TypeArxiv:
		return r.resolveArxiv(ctx, id, cfg)
	default:
		return types.SearchResult{}, fmt.Errorf("unrecognized identifier %q: use a DOI or arXiv ID", identifier)
	}
}

// ResolveAll resolves each identifier in order and stops at the first
// failure.
func (r *Resolver) ResolveAll(ctx context.Context, identifiers []string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	results := make([]types.SearchResult, 0, len(identifiers))
	for _, id := range identifiers {
		res, err := r.Resolve(ctx, id, cfg)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", id, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Resolver) get(ctx context.Context, reqURL string, cfg types.SearchConfig) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	return httputil.DoWithRetry(ctx, r.Client, req, 0)
}

func (r *Resolver) resolveDOI(ctx context.Context, doi string, cfg types.SearchConfig) (types.SearchResult, error) {
	resp, err := r.get(ctx, crossrefAPIBase+doi, cfg)
	if err != nil {
		return types.SearchResult{}, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SearchResult{}, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return types.SearchResult{}, fmt.Errorf("parsing CrossRef response: %w", err)
	}

	res := types.SearchResult{
		Identifier:     doi,
		DOI:            doi,
		URL:            cr.Message.URL,
		Abstract:       cr.Message.Abstract,
		Source:         "crossref",
		RelevanceScore: 1,
	}
	if len(cr.Message.Title) > 0 {
		res.Title = strings.Join(strings.Fields(cr.Message.Title[0]), " ")
	}
	for _, a := range cr.Message.Author {
		if name := strings.TrimSpace(a.Given + " " + a.Family); name != "" {
			res.Authors = append(res.Authors, name)
		} else if a.Name != "" {
			res.Authors = append(res.Authors, a.Name)
		}
	}
	for _, d := range []crossrefDate{cr.Message.Published, cr.Message.Issued, cr.Message.Created} {
		if t, ok := d.time(); ok {
			res.Date = t
			break
		}
	}
	return res, nil
}

func (r *Resolver) resolveArxiv(ctx context.Context, id string, cfg types.SearchConfig) (types.SearchResult, error) {
	resp, err := r.get(ctx, arxivAPIBase+"?id_list="+url.QueryEscape(id), cfg)
	if err != nil {
		return types.SearchResult{}, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.SearchResult{}, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return types.SearchResult{}, fmt.Errorf("parsing arXiv response: %w", err)
	}
	if len(feed.Entries) == 0 || extractArxivID(feed.Entries[0].ID) == "" {
		return types.SearchResult{}, fmt.Errorf("no entries found for arXiv ID %s", id)
	}

	entry := feed.Entries[0]
	res := types.SearchResult{
		Identifier:     id,
		Title:          strings.Join(strings.Fields(entry.Title), " "),
		Abstract:       strings.TrimSpace(entry.Summary),
		DOI:            strings.TrimSpace(entry.DOI),
		URL:            arxivAbsBase + id,
		Source:         BackendArxiv,
		RelevanceScore: 1,
	}
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			res.Authors = append(res.Authors, name)
		}
	}
	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		res.Date = t
	}
	return res, nil
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	Title     []string         `json:"title"`
	Abstract  string           `json:"abstract"`
	URL       string           `json:"URL"`
	Author    []crossrefAuthor `json:"author"`
	Published crossrefDate     `json:"published"`
	Issued    crossrefDate     `json:"issued"`
	Created   crossrefDate     `json:"created"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

// time converts partial date-parts ([year], [year, month], or
// [year, month, day]) to a time.
func (d crossrefDate) time() (time.Time, bool) {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 || d.DateParts[0][0] <= 0 {
		return time.Time{}, false
	}
	parts := append(d.DateParts[0], 1, 1)
	return time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, 0, 0, time.UTC), true
}
