// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/pdiddy/research-notebook/pkg/types"
)

// pdfFont is a core monospace font. Every glyph advances 0.6 em, which is
// what MonospaceMeasurer assumes, so wrapped lines always fit when drawn.
const (
	pdfFont        = "Courier"
	courierAdvance = 0.6
)

// MonospaceMeasurer returns the measurer matching the PDF font at cfg's
// font size.
func MonospaceMeasurer(cfg types.PageConfig) RuneWidthMeasurer {
	return RuneWidthMeasurer{CharWidth: cfg.FontSize * courierAdvance}
}

// PDF draws pages onto an fpdf document. It implements Drawer.
type PDF struct {
	doc       *fpdf.Fpdf
	translate func(string) string
}

// NewPDF creates an empty document with cfg's page size, in points.
func NewPDF(cfg types.PageConfig) *PDF {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: cfg.Width, Ht: cfg.Height},
	})
	doc.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	doc.SetAutoPageBreak(false, cfg.Margin)
	doc.SetFont(pdfFont, "", cfg.FontSize)
	return &PDF{
		doc:       doc,
		translate: doc.UnicodeTranslatorFromDescriptor(""),
	}
}

// NewPage implements Drawer.
func (p *PDF) NewPage() {
	p.doc.AddPage()
}

// DrawLine implements Drawer. y is the top of the line; fpdf places text on
// its baseline, so the line is shifted down by the font size.
func (p *PDF) DrawLine(x, y float64, text string) {
	if text == "" {
		return
	}
	_, size := p.doc.GetFontSize()
	p.doc.Text(x, y+size, p.translate(text))
}

// Output writes the finished document to w.
func (p *PDF) Output(w io.Writer) error {
	if p.doc.PageCount() == 0 {
		p.doc.AddPage()
	}
	if err := p.doc.Output(w); err != nil {
		return errors.Wrap(err, "writing PDF")
	}
	return nil
}

// WritePDF renders pages into a PDF and writes it to w. A document with no
// pages yields a single blank page.
func WritePDF(w io.Writer, pages []Page, cfg types.PageConfig) error {
	p := NewPDF(cfg)
	Render(pages, cfg.Margin, p)
	return p.Output(w)
}
