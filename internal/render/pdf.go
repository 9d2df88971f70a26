// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render serializes laid-out documents to PDF and pairs each PDF
// writer with the font metrics it draws with.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/layout"
)

// Surface writes a laid-out document as PDF bytes.
type Surface interface {
	Render(res *layout.Result) ([]byte, error)
}

// Producer is written to the PDF info dictionary.
var Producer = "paper-genius"

// epoch replaces wall-clock timestamps so identical input yields identical bytes.
var epoch = time.Unix(0, 0).UTC()

var errNoPages = errors.New("document has no pages")

// PDF draws runs with the Times standard fonts through fpdf. The fonts are
// not embedded; every conforming PDF reader supplies them.
type PDF struct{}

// Render implements Surface.
func (PDF) Render(res *layout.Result) ([]byte, error) {
	if res == nil || len(res.Pages) == 0 {
		return nil, errNoPages
	}

	first := res.Pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(epoch)
	pdf.SetModificationDate(epoch)
	pdf.SetCatalogSort(true)
	pdf.SetProducer(Producer, true)
	pdf.SetTitle(res.Title, true)

	for _, page := range res.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, run := range page.Runs {
			text, err := winAnsi(run.Text, run.Face)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", page.Number, err)
			}
			pdf.SetFont(standardFamily, fpdfStyle(run.Face), run.Size)
			// fpdf measures y down from the top edge.
			pdf.Text(run.X, page.Height-run.Y, text)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}
