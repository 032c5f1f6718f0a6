// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders SearchResults as Markdown fragments. Every function
// here is pure: the output depends only on the arguments.
package format

import (
	"fmt"
	"strings"

	"github.com/pdiddy/research-notebook/pkg/types"
)

// LineBreak is the explicit line-break marker used inside fragments where a
// source's newlines must survive Markdown paragraph folding.
const LineBreak = "<br>"

// SmartLabel prefixes results that came through the smart endpoint.
const SmartLabel = "**Smart Query Result**"

// SummaryLabel introduces a paper's abstract.
const SummaryLabel = "**Summary:**"

// Link texts for the per-result links.
const (
	DownloadPDFText = "Download PDF"
	ReadMoreText    = "Read More"
)

// QueryHeader renders the header line that opens each appended batch.
func QueryHeader(query string) string {
	return fmt.Sprintf("## Query: %s\n\n", oneLine(query))
}

// Format renders one result for the given source. Each fragment ends with a
// blank line so consecutive fragments concatenate into valid Markdown.
func Format(r types.SearchResult, src types.Source) string {
	var b strings.Builder

	switch src {
	case types.SourcePaperIndex:
		heading(&b, r.Title)
		b.WriteString(SummaryLabel + "\n\n")
		paragraph(&b, r.Summary)
		if r.PDFURL != "" {
			fmt.Fprintf(&b, "[%s](%s)\n\n", DownloadPDFText, r.PDFURL)
		}

	case types.SourceRAG:
		heading(&b, r.Title)
		paragraph(&b, strings.Join(splitLines(r.Summary), LineBreak+"\n"))

	case types.SourceWeb:
		heading(&b, r.Title)
		paragraph(&b, r.Summary)
		if r.URL != "" {
			fmt.Fprintf(&b, "[%s](%s)\n\n", ReadMoreText, r.URL)
		}

	case types.SourceSmart:
		b.WriteString(SmartLabel + "\n\n")
		heading(&b, r.Title)
		paragraph(&b, r.Summary)

	default:
		heading(&b, r.Title)
		paragraph(&b, r.Summary)
	}

	return b.String()
}

// Batch renders the header for query followed by every result in order.
func Batch(results []types.SearchResult, src types.Source, query string) string {
	var b strings.Builder
	b.WriteString(QueryHeader(query))
	for _, r := range results {
		b.WriteString(Format(r, src))
	}
	return b.String()
}

func heading(b *strings.Builder, title string) {
	fmt.Fprintf(b, "### %s\n\n", oneLine(title))
}

func paragraph(b *strings.Builder, text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	b.WriteString(text)
	b.WriteString("\n\n")
}

// oneLine collapses newlines so a heading stays on a single line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
