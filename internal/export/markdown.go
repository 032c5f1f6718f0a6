// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns the accumulated research document into its download
// forms: Markdown with sanitized HTML, plain text, and paginated line
// layouts that a PDF renderer can draw.
package export

import (
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/research-notebook/internal/format"
)

// MarkdownExport is the Markdown download: the document unchanged plus its
// rendered, sanitized HTML.
type MarkdownExport struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

// HTMLPolicy is the sanitization policy applied to rendered HTML before it
// reaches any display surface. Provider text is untrusted.
func HTMLPolicy() *bluemonday.Policy {
	htmlPolicyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowURLSchemes("http", "https", "mailto")
		p.RequireParseableURLs(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		htmlPolicy = p
	})
	return htmlPolicy
}

// RenderHTML renders document as HTML and sanitizes the result. Angle
// brackets in provider text are escaped first so "x<y and y>z" renders as
// text instead of being parsed as a tag and dropped by the sanitizer; only
// the line-break marker stays live markup.
func RenderHTML(document string) string {
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	out := markdown.ToHTML([]byte(escapeAngles(document)), nil, renderer)
	return HTMLPolicy().Sanitize(string(out))
}

func escapeAngles(document string) string {
	parts := strings.Split(document, format.LineBreak)
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, "<", "&lt;")
	}
	return strings.Join(parts, format.LineBreak)
}

// ToMarkdown returns the document unchanged together with its HTML.
func ToMarkdown(document string) MarkdownExport {
	return MarkdownExport{
		Markdown: document,
		HTML:     RenderHTML(document),
	}
}
