// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"fmt"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/citation"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Vertical gaps in points.
const (
	lineSlack          = 5  // extra room reserved before each line
	titleGapAfter      = 20 // below the title block
	sectionGapBefore   = 10 // above each section heading
	headingReserve     = 20 // reserved beyond the heading size
	headingGapAfter    = 5  // between a heading and its body
	sectionGapAfter    = 10 // below each section body
	referencesGap      = 20 // above the References heading
	referencesReserve  = 40 // reserved beyond the heading size
	referencesGapAfter = 10 // below the References heading
	referenceGapAfter  = 5  // below each reference
)

// ReferencesHeading titles the reference list.
const ReferencesHeading = "References"

// Run is one line of text placed on a page. X is the left edge of the text
// and Y its baseline, both in points from the bottom-left corner.
type Run struct {
	X    float64
	Y    float64
	Text string
	Face Face
	Size float64
}

// Page is a fixed-size page and the runs drawn on it, in drawing order.
type Page struct {
	Number int
	Width  float64
	Height float64
	Runs   []Run
}

// Result is a laid-out document ready for a rendering surface.
type Result struct {
	Title string
	Pages []Page
}

// Composer lays out papers. A Composer holds no per-document state and may
// be shared by concurrent callers as long as its Metrics is.
type Composer struct {
	metrics Metrics
	geom    Geometry
}

// NewComposer returns a Composer that measures with m and places text
// according to g.
func NewComposer(m Metrics, g Geometry) *Composer {
	return &Composer{metrics: m, geom: g}
}

// Geometry returns the page geometry the Composer lays out against.
func (c *Composer) Geometry() Geometry { return c.geom }

// Compose lays out the title, the six sections in fixed order, and the
// numbered reference list. A section with an empty body still gets its
// heading. Any measurement failure aborts the whole composition.
func (c *Composer) Compose(doc types.Paper) (*Result, error) {
	if err := c.geom.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	style := doc.CitationStyle
	if style == "" {
		style = types.DefaultCitationStyle
	}
	if !style.Valid() {
		return nil, fmt.Errorf("%w: unsupported citation style %q", ErrInvalidDocument, doc.CitationStyle)
	}

	s := &composition{
		Composer: c,
		flow:     NewFlow(c.geom),
		result:   &Result{Title: doc.Title},
	}
	s.sync()

	if err := s.title(doc.Title); err != nil {
		return nil, err
	}
	for _, sec := range doc.Sections.Ordered() {
		if err := s.section(sec.Heading, sec.Body); err != nil {
			return nil, err
		}
	}
	if err := s.references(doc.References, style); err != nil {
		return nil, err
	}
	return s.result, nil
}

// composition is the mutable state of one Compose call.
type composition struct {
	*Composer
	flow   *Flow
	result *Result
}

// sync appends pages until the result matches the flow's current page.
func (s *composition) sync() {
	for len(s.result.Pages) < s.flow.Page() {
		s.result.Pages = append(s.result.Pages, Page{
			Number: len(s.result.Pages) + 1,
			Width:  s.geom.PageWidth,
			Height: s.geom.PageHeight,
		})
	}
}

func (s *composition) draw(x float64, text string, face Face, size float64) {
	s.sync()
	p := &s.result.Pages[len(s.result.Pages)-1]
	p.Runs = append(p.Runs, Run{X: x, Y: s.flow.Y(), Text: text, Face: face, Size: size})
}

// text breaks a block at the content width and draws it line by line,
// reserving room before each line.
func (s *composition) text(body string, face Face, size float64, centered bool) error {
	lines, err := BreakLines(s.metrics, body, s.geom.ContentWidth(), face, size)
	if err != nil {
		return err
	}
	for _, line := range lines {
		s.flow.EnsureSpace(s.geom.LineHeight + lineSlack)
		x := s.geom.MarginLeft
		if centered {
			w, err := s.metrics.Width(line, face, size)
			if err != nil {
				return err
			}
			x = (s.geom.PageWidth - w) / 2
		}
		s.draw(x, line, face, size)
		s.flow.Advance(s.geom.LineHeight)
	}
	return nil
}

func (s *composition) title(title string) error {
	if err := s.text(title, FaceBold, s.geom.TitleSize, true); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	s.flow.Advance(titleGapAfter)
	return nil
}

func (s *composition) section(heading, body string) error {
	s.flow.Advance(sectionGapBefore)
	s.flow.EnsureSpace(s.geom.HeadingSize + headingReserve)
	if err := s.text(heading, FaceBold, s.geom.HeadingSize, false); err != nil {
		return fmt.Errorf("%s heading: %w", heading, err)
	}
	s.flow.Advance(headingGapAfter)

	if body != "" {
		if err := s.text(body, FaceRegular, s.geom.BodySize, false); err != nil {
			return fmt.Errorf("%s: %w", heading, err)
		}
	}
	s.flow.Advance(sectionGapAfter)
	return nil
}

func (s *composition) references(refs []types.Reference, style types.CitationStyle) error {
	s.flow.Advance(referencesGap)
	s.flow.EnsureSpace(s.geom.HeadingSize + referencesReserve)
	if err := s.text(ReferencesHeading, FaceBold, s.geom.HeadingSize, false); err != nil {
		return fmt.Errorf("references heading: %w", err)
	}
	s.flow.Advance(referencesGapAfter)

	width := s.geom.ContentWidth() - s.geom.ReferenceInset
	for i, ref := range refs {
		formatted := citation.Format(ref, i, style)
		lines, err := BreakLines(s.metrics, formatted, width, FaceRegular, s.geom.BodySize)
		if err != nil {
			return fmt.Errorf("reference %d: %w", i+1, err)
		}

		s.flow.EnsureSpace(float64(len(lines))*s.geom.LineHeight + referenceGapAfter)
		for j, line := range lines {
			if j == 0 {
				s.draw(s.geom.MarginLeft, citation.Label(i), FaceRegular, s.geom.BodySize)
			} else {
				// Only a reference taller than a page can trip this.
				s.flow.EnsureSpace(s.geom.LineHeight)
			}
			s.draw(s.geom.MarginLeft+s.geom.ReferenceIndent, line, FaceRegular, s.geom.BodySize)
			s.flow.Advance(s.geom.LineHeight)
		}
		s.flow.Advance(referenceGapAfter)
	}
	return nil
}
