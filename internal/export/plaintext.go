// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"regexp"
	"strings"

	"github.com/pdiddy/research-notebook/internal/format"
)

// Only the markers the formatter emits are stripped. Provider text between
// them is kept byte for byte, so "x<y", "__init__" and "2**10" survive.
var (
	queryHeadingRe = regexp.MustCompile(`(?m)^## (Query: )`)
	titleHeadingRe = regexp.MustCompile(`(?m)^### `)
	labelRe        = regexp.MustCompile(`(?m)^(?:` +
		regexp.QuoteMeta(format.SummaryLabel) + `|` +
		regexp.QuoteMeta(format.SmartLabel) + `)$`)
	linkRe = regexp.MustCompile(`(?m)^\[(` +
		regexp.QuoteMeta(format.DownloadPDFText) + `|` +
		regexp.QuoteMeta(format.ReadMoreText) + `)\]\((\S*)\)$`)
)

// PlainText strips the document's markup for PDF layout. Query and title
// heading markers and the bold labels lose their syntax, the PDF and
// Read More links become "text (url)" and line-break markers become
// newlines.
func PlainText(document string) string {
	s := strings.ReplaceAll(document, "\r\n", "\n")
	s = strings.ReplaceAll(s, format.LineBreak+"\n", "\n")
	s = queryHeadingRe.ReplaceAllString(s, "$1")
	s = titleHeadingRe.ReplaceAllString(s, "")
	s = labelRe.ReplaceAllStringFunc(s, func(label string) string {
		return strings.Trim(label, "*")
	})
	s = linkRe.ReplaceAllString(s, "$1 ($2)")
	return strings.TrimRight(s, "\n")
}
