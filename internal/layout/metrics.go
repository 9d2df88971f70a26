// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout turns a paper into positioned lines of text on fixed-size
// pages. It measures text through a Metrics provider, breaks paragraphs
// greedily at word boundaries, and moves a vertical cursor down each page,
// starting a new page whenever the next block would cross the bottom margin.
//
// All dimensions are PostScript points. The vertical cursor is measured
// from the bottom edge of the page, as in PDF user space.
package layout

import (
	"errors"
	"fmt"
)

// Face selects one member of the font family.
type Face int

const (
	FaceRegular Face = iota
	FaceBold
	FaceItalic
)

// String returns the face name used in logs and errors.
func (f Face) String() string {
	switch f {
	case FaceRegular:
		return "regular"
	case FaceBold:
		return "bold"
	case FaceItalic:
		return "italic"
	default:
		return fmt.Sprintf("face(%d)", int(f))
	}
}

// Metrics reports the rendered width of text. Implementations must be pure
// and safe for concurrent use.
type Metrics interface {
	// Width returns the horizontal extent of text in points when set in
	// face at size points, summing the font's per-glyph advance widths.
	Width(text string, face Face, size float64) (float64, error)
}

var (
	// ErrMeasurement reports that text could not be measured, typically
	// because a glyph is missing from the font's encoding.
	ErrMeasurement = errors.New("measurement failed")

	// ErrInvalidDocument reports a document the composer cannot lay out.
	ErrInvalidDocument = errors.New("invalid document")
)

// MeasurementError identifies the text and rune that could not be measured.
type MeasurementError struct {
	Text string
	Rune rune
	Face Face
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("%v: %q has no %s glyph (in %q)", ErrMeasurement, e.Rune, e.Face, e.Text)
}

// Unwrap lets errors.Is match ErrMeasurement.
func (e *MeasurementError) Unwrap() error { return ErrMeasurement }
