// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

// Flow owns the vertical write cursor and the current page number. It
// decides when content would cross the bottom margin; it does not record
// the content itself.
type Flow struct {
	top    float64
	bottom float64
	y      float64
	page   int
}

// NewFlow starts on page 1 with the cursor at the top margin.
func NewFlow(g Geometry) *Flow {
	return &Flow{
		top:    g.Top(),
		bottom: g.MarginBottom,
		y:      g.Top(),
		page:   1,
	}
}

// EnsureSpace starts a new page when height points below the cursor would
// cross the bottom margin. It reports whether a page break occurred; after
// a break the cursor sits at the top margin of the new page.
func (f *Flow) EnsureSpace(height float64) bool {
	if f.y-height < f.bottom {
		f.page++
		f.y = f.top
		return true
	}
	return false
}

// Advance moves the cursor down by dy points.
func (f *Flow) Advance(dy float64) {
	f.y -= dy
}

// Y is the cursor position measured from the bottom edge of the page.
func (f *Flow) Y() float64 { return f.y }

// Page is the 1-based number of the current page.
func (f *Flow) Page() int { return f.page }
