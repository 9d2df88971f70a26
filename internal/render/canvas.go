// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/layout"
)

// canvas works in millimetres; layout works in points.
const mmPerPt = 25.4 / 72

var inkColor color.Color = canvas.Black

// CanvasFonts holds the Latin Modern Roman faces embedded in canvas output.
// Loading parses three font programs, so callers share one instance.
type CanvasFonts struct {
	mu       sync.Mutex
	families [3]*canvas.FontFamily
}

// NewCanvasFonts parses the regular, bold, and italic Latin Modern Roman
// fonts.
func NewCanvasFonts() (*CanvasFonts, error) {
	sources := [3]struct {
		name  string
		data  []byte
		style canvas.FontStyle
	}{
		layout.FaceRegular: {"lmroman10-regular", lmroman10regular.TTF, canvas.FontRegular},
		layout.FaceBold:    {"lmroman10-bold", lmroman10bold.TTF, canvas.FontBold},
		layout.FaceItalic:  {"lmroman10-italic", lmroman10italic.TTF, canvas.FontItalic},
	}

	f := &CanvasFonts{}
	for i, src := range sources {
		family := canvas.NewFontFamily(src.name)
		if err := family.LoadFont(src.data, 0, src.style); err != nil {
			return nil, fmt.Errorf("loading %s: %w", src.name, err)
		}
		f.families[i] = family
	}
	return f, nil
}

func (f *CanvasFonts) face(face layout.Face, size float64) (*canvas.FontFace, error) {
	if face < layout.FaceRegular || face > layout.FaceItalic {
		return nil, fmt.Errorf("%w: unknown face %v", layout.ErrMeasurement, face)
	}
	style := canvas.FontRegular
	switch face {
	case layout.FaceBold:
		style = canvas.FontBold
	case layout.FaceItalic:
		style = canvas.FontItalic
	}
	return f.families[face].Face(size, inkColor, style, canvas.FontNormal), nil
}

// checkGlyphs rejects text containing a rune the font cannot draw.
func checkGlyphs(ff *canvas.FontFace, text string, face layout.Face) error {
	for _, r := range text {
		if r == ' ' {
			continue
		}
		if ff.Font.GlyphIndex(r) == 0 {
			return &layout.MeasurementError{Text: text, Rune: r, Face: face}
		}
	}
	return nil
}

// Width implements layout.Metrics using the fonts' advance widths.
func (f *CanvasFonts) Width(text string, face layout.Face, size float64) (float64, error) {
	text = norm.NFC.String(text)

	f.mu.Lock()
	defer f.mu.Unlock()

	ff, err := f.face(face, size)
	if err != nil {
		return 0, err
	}
	if err := checkGlyphs(ff, text, face); err != nil {
		return 0, err
	}
	return ff.TextWidth(text) / mmPerPt, nil
}

// Canvas draws runs with embedded Latin Modern fonts through the
// tdewolff/canvas PDF writer. Pair it with the same CanvasFonts used for
// measurement. Output is reproducible: wall-clock stamps are pinned.
type Canvas struct {
	Fonts *CanvasFonts
}

// Render implements Surface.
func (s Canvas) Render(res *layout.Result) ([]byte, error) {
	if res == nil || len(res.Pages) == 0 {
		return nil, errNoPages
	}

	s.Fonts.mu.Lock()
	defer s.Fonts.mu.Unlock()

	var buf bytes.Buffer
	first := res.Pages[0]
	writer := pdf.New(&buf, first.Width*mmPerPt, first.Height*mmPerPt, nil)
	writer.SetInfo(res.Title, "", "", "", Producer)

	for i, page := range res.Pages {
		if i > 0 {
			writer.NewPage(page.Width*mmPerPt, page.Height*mmPerPt)
		}
		c := canvas.New(page.Width*mmPerPt, page.Height*mmPerPt)
		// Default coordinates put the origin bottom-left, as in layout.
		ctx := canvas.NewContext(c)
		for _, run := range page.Runs {
			ff, err := s.Fonts.face(run.Face, run.Size)
			if err != nil {
				return nil, err
			}
			text := norm.NFC.String(run.Text)
			if err := checkGlyphs(ff, text, run.Face); err != nil {
				return nil, fmt.Errorf("page %d: %w", page.Number, err)
			}
			ctx.DrawText(run.X*mmPerPt, run.Y*mmPerPt, canvas.NewTextLine(ff, text, canvas.Left))
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	data, err := pinTimestamps(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("pinning timestamps: %w", err)
	}
	return data, nil
}
