// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// CitationStyle selects how references are formatted in the rendered paper.
type CitationStyle string

const (
	StyleAPA  CitationStyle = "APA"
	StyleIEEE CitationStyle = "IEEE"
	StyleMLA  CitationStyle = "MLA"
)

// DefaultCitationStyle is used when a request does not name a style.
const DefaultCitationStyle = StyleAPA

// Valid reports whether s is one of the supported styles.
func (s CitationStyle) Valid() bool {
	switch s {
	case StyleAPA, StyleIEEE, StyleMLA:
		return true
	}
	return false
}

// ParseCitationStyle accepts APA, IEEE, or MLA in any letter case. An empty
// string yields DefaultCitationStyle.
func ParseCitationStyle(s string) (CitationStyle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCitationStyle, nil
	}
	style := CitationStyle(strings.ToUpper(s))
	if !style.Valid() {
		return "", fmt.Errorf("unsupported citation style %q: use APA, IEEE, or MLA", s)
	}
	return style, nil
}

// Reference is one bibliographic entry cited by a generated paper.
type Reference struct {
	// Title is the cited work's title.
	Title string `json:"title" yaml:"title" firestore:"title"`

	// Authors lists the cited work's authors in source order.
	Authors []string `json:"authors" yaml:"authors" firestore:"authors"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year" firestore:"year"`

	// DOI is the bare DOI (e.g. "10.1000/xyz"), if known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty" firestore:"doi,omitempty"`

	// URL links to the work when no DOI is available.
	URL string `json:"url,omitempty" yaml:"url,omitempty" firestore:"url,omitempty"`
}

// Sections holds the six body sections of a paper in reading order.
type Sections struct {
	Abstract     string `json:"abstract" yaml:"abstract" firestore:"abstract"`
	Introduction string `json:"introduction" yaml:"introduction" firestore:"introduction"`
	Methods      string `json:"methods" yaml:"methods" firestore:"methods"`
	Results      string `json:"results" yaml:"results" firestore:"results"`
	Discussion   string `json:"discussion" yaml:"discussion" firestore:"discussion"`
	Conclusion   string `json:"conclusion" yaml:"conclusion" firestore:"conclusion"`
}

// Section is a heading paired with its body text.
type Section struct {
	Heading string
	Body    string
}

// Ordered returns the sections with their display headings, Abstract first
// and Conclusion last.
func (s Sections) Ordered() []Section {
	return []Section{
		{Heading: "Abstract", Body: s.Abstract},
		{Heading: "Introduction", Body: s.Introduction},
		{Heading: "Methods", Body: s.Methods},
		{Heading: "Results", Body: s.Results},
		{Heading: "Discussion", Body: s.Discussion},
		{Heading: "Conclusion", Body: s.Conclusion},
	}
}

// Paper is a generated research paper together with the references it cites.
type Paper struct {
	// ID is a UUID assigned by the store on creation.
	ID string `json:"id" yaml:"id" firestore:"id"`

	// Topic is the research topic the paper was generated for.
	Topic string `json:"topic" yaml:"topic" firestore:"topic"`

	// Title is the generated paper title.
	Title string `json:"title" yaml:"title" firestore:"title"`

	Sections `yaml:",inline"`

	// References lists the cited works in citation order.
	References []Reference `json:"references" yaml:"references" firestore:"references"`

	// CitationStyle selects the reference format used when rendering.
	CitationStyle CitationStyle `json:"citationStyle" yaml:"citation_style" firestore:"citationStyle"`

	// GeneratedAt records when the paper was stored.
	GeneratedAt time.Time `json:"generatedAt" yaml:"generated_at" firestore:"generatedAt"`
}
