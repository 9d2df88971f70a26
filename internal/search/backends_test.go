// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/httputil"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// serve points *base at a test server that answers with status and body,
// and records the last request.
func serve(t *testing.T, base *string, status int, body string) **http.Request {
	t.Helper()
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	old := *base
	*base = ts.URL
	t.Cleanup(func() {
		*base = old
		ts.Close()
	})
	return &captured
}

// --- Semantic Scholar ---

const semanticBody = `{"total":3,"offset":0,"data":[
 {"paperId":"p1","title":"Attention Is All You Need","year":2017,"publicationDate":"2017-06-12",
  "url":"https://www.semanticscholar.org/paper/p1","authors":[{"name":"Ashish Vaswani"},{"name":" "}],
  "externalIds":{"DOI":"10.5555/3295222","ArXiv":"1706.03762"}},
 {"paperId":"p2","title":"BERT","year":2019,"authors":[],"externalIds":{"ArXiv":"1810.04805"}},
 {"paperId":"p3","title":"","authors":[{"name":"Anon"}],"externalIds":{}}
]}`

func TestSemanticScholarBackendSearch(t *testing.T) {
	req := serve(t, &semanticAPIBase, http.StatusOK, semanticBody)

	cfg := testCfg()
	cfg.MaxResults = 15
	b := &SemanticScholarBackend{Client: http.DefaultClient, APIKey: "sk"}
	results, err := b.Search(context.Background(), Query{
		FreeText: "attention",
		DateFrom: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
	}, cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := (*req).URL.Query()
	if q.Get("query") != "attention" || q.Get("limit") != "15" || q.Get("year") != "2015-" {
		t.Errorf("query params = %v", q)
	}
	if !strings.Contains(q.Get("fields"), "url") || !strings.Contains(q.Get("fields"), "externalIds") {
		t.Errorf("fields = %q", q.Get("fields"))
	}
	if got := (*req).Header.Get("x-api-key"); got != "sk" {
		t.Errorf("x-api-key = %q", got)
	}
	if got := (*req).Header.Get("User-Agent"); got != "test/0.1" {
		t.Errorf("User-Agent = %q", got)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	first := results[0]
	if first.Identifier != "10.5555/3295222" || first.DOI != "10.5555/3295222" {
		t.Errorf("first identifier/DOI = %q/%q", first.Identifier, first.DOI)
	}
	if first.URL != "https://www.semanticscholar.org/paper/p1" {
		t.Errorf("first URL = %q", first.URL)
	}
	if len(first.Authors) != 1 || first.Authors[0] != "Ashish Vaswani" {
		t.Errorf("first authors = %v", first.Authors)
	}
	if first.Date != time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC) {
		t.Errorf("first date = %v", first.Date)
	}
	if first.RelevanceScore != 1.0 || first.Source != BackendSemanticScholar {
		t.Errorf("first score/source = %f/%s", first.RelevanceScore, first.Source)
	}
	if results[1].Identifier != "1810.04805" || results[1].Date.Year() != 2019 {
		t.Errorf("second = %+v", results[1])
	}
	if results[2].Identifier != "p3" || !results[2].Date.IsZero() {
		t.Errorf("third = %+v", results[2])
	}
}

func TestSemanticScholarBackendErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusInternalServerError, "", "HTTP 500"},
		{"malformed json", http.StatusOK, "{not json", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serve(t, &semanticAPIBase, tt.status, tt.body)
			b := &SemanticScholarBackend{Client: http.DefaultClient}
			_, err := b.Search(context.Background(), Query{FreeText: "x"}, testCfg())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}

	b := &SemanticScholarBackend{Client: http.DefaultClient}
	if _, err := b.Search(context.Background(), Query{}, testCfg()); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestBuildYearRange(t *testing.T) {
	y := func(n int) time.Time { return time.Date(n, 1, 1, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		from, to time.Time
		want     string
	}{
		{y(2020), y(2023), "2020-2023"},
		{y(2020), time.Time{}, "2020-"},
		{time.Time{}, y(2023), "-2023"},
		{time.Time{}, time.Time{}, ""},
	}
	for _, tt := range tests {
		if got := buildYearRange(tt.from, tt.to); got != tt.want {
			t.Errorf("buildYearRange = %q, want %q", got, tt.want)
		}
	}
}

// --- OpenAlex ---

const openAlexBody = `{"meta":{"count":2},"results":[
 {"id":"https://openalex.org/W1","title":"Graph Attention Networks","doi":"https://doi.org/10.48550/arxiv.1710.10903",
  "publication_date":"2018-02-04","authorships":[{"author":{"display_name":"Petar Velickovic"}}],
  "abstract_inverted_index":{"Graph":[0],"attention":[1],"works":[2]},
  "primary_location":{"landing_page_url":"https://arxiv.org/abs/1710.10903"}},
 {"id":"https://openalex.org/W2","title":"No DOI Work","publication_year":2020,
  "open_access":{"is_oa":true,"oa_url":"https://example.org/w2.pdf"}}
]}`

func TestOpenAlexBackendSearch(t *testing.T) {
	req := serve(t, &openAlexSearchBase, http.StatusOK, openAlexBody)

	b := &OpenAlexBackend{Client: http.DefaultClient, Email: "me@example.com"}
	results, err := b.Search(context.Background(), Query{
		FreeText: "graph attention",
		DateTo:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := (*req).URL.Query()
	if q.Get("search") != "graph attention" || q.Get("mailto") != "me@example.com" {
		t.Errorf("params = %v", q)
	}
	if q.Get("filter") != "to_publication_date:2024-12-31" {
		t.Errorf("filter = %q", q.Get("filter"))
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].DOI != "10.48550/arxiv.1710.10903" || results[0].Identifier != results[0].DOI {
		t.Errorf("DOI = %q, Identifier = %q", results[0].DOI, results[0].Identifier)
	}
	if results[0].URL != "https://arxiv.org/abs/1710.10903" {
		t.Errorf("URL = %q", results[0].URL)
	}
	if results[0].Abstract != "Graph attention works" {
		t.Errorf("Abstract = %q", results[0].Abstract)
	}
	if results[1].Identifier != "https://openalex.org/W2" || results[1].DOI != "" {
		t.Errorf("second identifier/DOI = %q/%q", results[1].Identifier, results[1].DOI)
	}
	if results[1].URL != "https://example.org/w2.pdf" || results[1].Date.Year() != 2020 {
		t.Errorf("second = %+v", results[1])
	}
	if results[1].RelevanceScore >= results[0].RelevanceScore {
		t.Error("position scores should decrease")
	}
}

func TestOpenAlexBackendHTTPError(t *testing.T) {
	serve(t, &openAlexSearchBase, http.StatusBadGateway, "")
	b := &OpenAlexBackend{Client: http.DefaultClient}
	_, err := b.Search(context.Background(), Query{FreeText: "x"}, testCfg())
	if err == nil || !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("err = %v", err)
	}
}

func TestReconstructAbstract(t *testing.T) {
	idx := map[string][]int{"the": {0, 3}, "cat": {1}, "saw": {2}, "dog": {4}}
	if got := reconstructAbstract(idx); got != "the cat saw the dog" {
		t.Errorf("got %q", got)
	}
	if got := reconstructAbstract(nil); got != "" {
		t.Errorf("nil index = %q", got)
	}
}

// --- arXiv ---

const arxivBody = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Sparse
      Attention</title>
    <summary> An abstract. </summary>
    <published>2023-01-17T18:00:00Z</published>
    <author><name>Jane Doe</name></author>
    <arxiv:doi>10.1000/sparse</arxiv:doi>
  </entry>
  <entry>
    <id>not-an-arxiv-id</id>
    <title>Skipped</title>
  </entry>
</feed>`

func TestArxivBackendSearch(t *testing.T) {
	req := serve(t, &arxivAPIBase, http.StatusOK, arxivBody)

	b := &ArxivBackend{Client: http.DefaultClient}
	results, err := b.Search(context.Background(), Query{FreeText: "sparse attention"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := (*req).URL.Query().Get("search_query"); got != "all:sparse attention" {
		t.Errorf("search_query = %q", got)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	r := results[0]
	if r.Identifier != "2301.07041" || r.Title != "Sparse Attention" || r.Abstract != "An abstract." {
		t.Errorf("result = %+v", r)
	}
	if r.URL != "https://arxiv.org/abs/2301.07041" || r.DOI != "10.1000/sparse" {
		t.Errorf("URL/DOI = %q/%q", r.URL, r.DOI)
	}
	if len(r.Authors) != 1 || r.Date.Year() != 2023 {
		t.Errorf("authors/date = %v/%v", r.Authors, r.Date)
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v3", "hep-th/9901001"},
		{"http://example.com/paper", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildArxivQuery(t *testing.T) {
	tests := []struct {
		query Query
		want  string
	}{
		{Query{FreeText: "graph neural"}, "all:graph+neural"},
		{Query{Author: "Yann LeCun"}, "au:Yann+LeCun"},
		{Query{FreeText: "cnn", Keywords: []string{"vision"}}, "all:cnn+AND+all:vision"},
		{Query{Keywords: []string{"  "}}, ""},
	}
	for _, tt := range tests {
		if got := buildArxivQuery(tt.query); got != tt.want {
			t.Errorf("buildArxivQuery(%+v) = %q, want %q", tt.query, got, tt.want)
		}
	}
}
