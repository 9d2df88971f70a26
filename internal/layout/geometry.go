// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import "fmt"

// US Letter in points.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Geometry fixes the page size, margins, and typographic sizes used by the
// Composer.
type Geometry struct {
	PageWidth  float64
	PageHeight float64

	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	// LineHeight is the fixed baseline-to-baseline advance for every line,
	// regardless of font size.
	LineHeight float64

	TitleSize   float64
	HeadingSize float64
	BodySize    float64

	// ReferenceIndent is the distance from the left margin to the wrapped
	// reference text, leaving room for the "[n]" label.
	ReferenceIndent float64

	// ReferenceInset narrows the reference wrap width relative to the
	// content width.
	ReferenceInset float64
}

// DefaultGeometry returns a Letter page with one-inch margins, 14 pt
// leading, and an 18/14/11 pt title/heading/body scale.
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:       LetterWidth,
		PageHeight:      LetterHeight,
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
		LineHeight:      14,
		TitleSize:       18,
		HeadingSize:     14,
		BodySize:        11,
		ReferenceIndent: 30,
		ReferenceInset:  20,
	}
}

// ContentWidth is the page width minus the left and right margins.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// Top is the cursor position at the top of a fresh page.
func (g Geometry) Top() float64 {
	return g.PageHeight - g.MarginTop
}

// Validate rejects geometries that leave no room for content.
func (g Geometry) Validate() error {
	switch {
	case g.PageWidth <= 0 || g.PageHeight <= 0:
		return fmt.Errorf("page size %gx%g must be positive", g.PageWidth, g.PageHeight)
	case g.ContentWidth()-g.ReferenceInset <= 0:
		return fmt.Errorf("margins leave no content width on a %g pt page", g.PageWidth)
	case g.Top() <= g.MarginBottom:
		return fmt.Errorf("margins leave no content height on a %g pt page", g.PageHeight)
	case g.LineHeight <= 0:
		return fmt.Errorf("line height %g must be positive", g.LineHeight)
	case g.TitleSize <= 0 || g.HeadingSize <= 0 || g.BodySize <= 0:
		return fmt.Errorf("font sizes must be positive")
	}
	return nil
}
