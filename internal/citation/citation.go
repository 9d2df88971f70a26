// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation formats bibliographic references as single strings in
// APA, IEEE, or MLA style, and exports reference lists as BibTeX.
package citation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// UnknownAuthor stands in for an empty author list.
const UnknownAuthor = "Unknown Author"

// Format renders ref as a single line in the given style. index is the
// zero-based position of ref in the reference list; IEEE embeds index+1.
// Unknown styles fall back to APA; callers validate styles before
// formatting.
func Format(ref types.Reference, index int, style types.CitationStyle) string {
	authors := joinAuthors(ref.Authors)

	switch style {
	case types.StyleIEEE:
		s := fmt.Sprintf("[%d] %s, \"%s,\" %d.", index+1, authors, ref.Title, ref.Year)
		if ref.DOI != "" {
			s += " DOI: " + ref.DOI
		}
		return s
	case types.StyleMLA:
		s := fmt.Sprintf("%s. \"%s.\" %d.", authors, ref.Title, ref.Year)
		if ref.URL != "" && ref.DOI == "" {
			s += " " + ref.URL
		}
		return s
	default:
		s := fmt.Sprintf("%s (%d). %s.", authors, ref.Year, ref.Title)
		if ref.DOI != "" {
			s += " https://doi.org/" + ref.DOI
		}
		return s
	}
}

// Label returns the bracketed ordinal drawn beside a reference, e.g. "[3]".
func Label(index int) string {
	return "[" + strconv.Itoa(index+1) + "]"
}

func joinAuthors(authors []string) string {
	if len(authors) == 0 {
		return UnknownAuthor
	}
	return strings.Join(authors, ", ")
}

// BibTeX produces BibTeX @article entries for refs. Keys are derived from
// the first author's family name and the year; collisions get a letter
// suffix (Smith2020, Smith2020b).
func BibTeX(refs []types.Reference) string {
	var b strings.Builder
	seen := make(map[string]int)
	for _, r := range refs {
		key := citationKey(r)
		seen[key]++
		if n := seen[key]; n > 1 {
			key += string(rune('a' + n - 1))
		}

		fmt.Fprintf(&b, "@article{%s,\n", key)
		fmt.Fprintf(&b, "  title = {%s},\n", r.Title)
		if len(r.Authors) > 0 {
			fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(r.Authors, " and "))
		}
		if r.Year > 0 {
			fmt.Fprintf(&b, "  year = {%d},\n", r.Year)
		}
		if r.DOI != "" {
			fmt.Fprintf(&b, "  doi = {%s},\n", r.DOI)
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "  url = {%s},\n", r.URL)
		}
		fmt.Fprintf(&b, "}\n\n")
	}
	return b.String()
}

// citationKey builds an AuthorYear key from the first author's last name.
func citationKey(r types.Reference) string {
	family := "Anon"
	if len(r.Authors) > 0 {
		fields := strings.Fields(r.Authors[0])
		if len(fields) > 0 {
			family = fields[len(fields)-1]
		}
	}
	var b strings.Builder
	for _, c := range family {
		if unicode.IsLetter(c) && c < unicode.MaxASCII {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		b.WriteString("Anon")
	}
	if r.Year > 0 {
		b.WriteString(strconv.Itoa(r.Year))
	}
	return b.String()
}
