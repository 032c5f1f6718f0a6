// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"github.com/pdiddy/research-notebook/pkg/types"
)

// Line is one line of text placed at vertical offset Y from the page top.
type Line struct {
	Text string  `json:"text"`
	Y    float64 `json:"y"`
}

// Page is an ordered list of placed lines.
type Page struct {
	Lines []Line `json:"lines"`
}

// Paginate packs lines onto pages. The cursor starts at the top margin; a
// line that would end below pageHeight-margin starts a new page. A page
// always receives at least one line, so nothing is dropped even when the
// geometry leaves room for none.
func Paginate(lines []string, cfg types.PageConfig) []Page {
	var pages []Page
	var cur Page
	cursor := cfg.Margin

	for _, text := range lines {
		if cursor+cfg.LineHeight > cfg.Height-cfg.Margin && len(cur.Lines) > 0 {
			pages = append(pages, cur)
			cur = Page{}
			cursor = cfg.Margin
		}
		cur.Lines = append(cur.Lines, Line{Text: text, Y: cursor})
		cursor += cfg.LineHeight
	}
	if len(cur.Lines) > 0 {
		pages = append(pages, cur)
	}
	return pages
}

// ToPaginatedPages strips the document's markup, wraps it to the text
// width and paginates it. The result depends only on the arguments.
func ToPaginatedPages(document string, cfg types.PageConfig, m Measurer) []Page {
	text := PlainText(document)
	if text == "" {
		return nil
	}
	return Paginate(Wrap(text, cfg.TextWidth(), m), cfg)
}

// Drawer is the drawing surface pages are rendered onto.
type Drawer interface {
	NewPage()
	DrawLine(x, y float64, text string)
}

// Render draws every page, starting each with NewPage. Lines are drawn at
// the left margin.
func Render(pages []Page, margin float64, d Drawer) {
	for _, p := range pages {
		d.NewPage()
		for _, l := range p.Lines {
			d.DrawLine(margin, l.Y, l.Text)
		}
	}
}
