// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/layout"
)

// Standard-14 family drawn by the fpdf surface.
const standardFamily = "Times"

// fpdfStyle maps a face to the fpdf style string.
func fpdfStyle(f layout.Face) string {
	switch f {
	case layout.FaceBold:
		return "B"
	case layout.FaceItalic:
		return "I"
	default:
		return ""
	}
}

var standardFaces = []layout.Face{layout.FaceRegular, layout.FaceBold, layout.FaceItalic}

// StandardMetrics measures text against the Times-Roman, Times-Bold, and
// Times-Italic standard font metrics in WinAnsi encoding. Width tables are
// copied once at construction and never written again, so a single
// StandardMetrics may be shared by any number of goroutines.
type StandardMetrics struct {
	// widths[face][b] is the advance of byte b in thousandths of an em.
	widths [3][256]float64
}

// NewStandardMetrics loads the Times width tables.
func NewStandardMetrics() (*StandardMetrics, error) {
	// At size 1000 in point units GetStringWidth returns the raw advance.
	pdf := fpdf.New("P", "pt", "Letter", "")
	m := &StandardMetrics{}
	for _, face := range standardFaces {
		pdf.SetFont(standardFamily, fpdfStyle(face), 1000)
		for b := 0; b < 256; b++ {
			m.widths[face][b] = pdf.GetStringWidth(string([]byte{byte(b)}))
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("loading %s metrics: %w", standardFamily, err)
	}
	return m, nil
}

// Width implements layout.Metrics.
func (m *StandardMetrics) Width(text string, face layout.Face, size float64) (float64, error) {
	if face < layout.FaceRegular || face > layout.FaceItalic {
		return 0, fmt.Errorf("%w: unknown face %v", layout.ErrMeasurement, face)
	}
	encoded, err := winAnsi(text, face)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for i := 0; i < len(encoded); i++ {
		total += m.widths[face][encoded[i]]
	}
	return total * size / 1000, nil
}

// winAnsi converts text to Windows-1252 bytes after NFC normalization, so
// that "e" plus a combining acute becomes the single byte for "é". A rune
// with no WinAnsi code point is a measurement failure.
func winAnsi(text string, face layout.Face) (string, error) {
	text = norm.NFC.String(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return "", &layout.MeasurementError{Text: text, Rune: r, Face: face}
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
