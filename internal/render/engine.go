// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/layout"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Surface names accepted by New.
const (
	SurfaceFPDF   = "fpdf"
	SurfaceCanvas = "canvas"
)

// Engine lays out papers with one set of metrics and draws them on the
// surface that uses the same fonts. An Engine is safe for concurrent use.
type Engine struct {
	composer *layout.Composer
	surface  Surface
}

// New builds the Engine for the named surface. An empty name selects fpdf.
func New(surface string) (*Engine, error) {
	return NewWithGeometry(surface, layout.DefaultGeometry())
}

// NewWithGeometry is New with a custom page geometry.
func NewWithGeometry(surface string, g layout.Geometry) (*Engine, error) {
	switch surface {
	case "", SurfaceFPDF:
		m, err := NewStandardMetrics()
		if err != nil {
			return nil, err
		}
		return &Engine{composer: layout.NewComposer(m, g), surface: PDF{}}, nil
	case SurfaceCanvas:
		fonts, err := NewCanvasFonts()
		if err != nil {
			return nil, err
		}
		return &Engine{composer: layout.NewComposer(fonts, g), surface: Canvas{Fonts: fonts}}, nil
	default:
		return nil, fmt.Errorf("unknown render surface %q: use %s or %s", surface, SurfaceFPDF, SurfaceCanvas)
	}
}

// Layout composes p without serializing it.
func (e *Engine) Layout(p types.Paper) (*layout.Result, error) {
	return e.composer.Compose(p)
}

// Render composes p and serializes it to PDF bytes.
func (e *Engine) Render(p types.Paper) ([]byte, error) {
	res, err := e.composer.Compose(p)
	if err != nil {
		return nil, err
	}
	return e.surface.Render(res)
}

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// PageCount parses a PDF and returns its number of pages.
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("reading PDF: %w", err)
	}
	return n, nil
}
