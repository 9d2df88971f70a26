// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the search,
// generation, storage, and rendering stages of paper-genius.
package types

import "time"

// SearchResult represents a candidate reference returned by an academic API
// query. Each result carries an identifier, metadata, its source, and a
// relevance score.
type SearchResult struct {
	// Identifier is the canonical ID from the source (arXiv ID, DOI, or source ID).
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Date is the publication or preprint date.
	Date time.Time `json:"date" yaml:"date"`

	// DOI is the bare DOI when the source reports one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is a landing page for the work.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Source identifies which backend found this result (e.g. "arxiv", "semantic_scholar").
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is a value between 0.0 and 1.0 indicating relevance to the query.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}
