// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw provider payloads into SearchResults.
// Each Source has one rule; a payload that does not match its rule degrades
// to the synthetic "No results found." result instead of failing.
package normalize

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/research-notebook/pkg/types"
)

// Result titles for sources that yield a single synthesized entry.
const (
	RAGTitle = "RAG Search Result"
	WebTitle = "Web Search Result"
)

// Normalize maps a provider payload to an ordered, non-empty slice of
// results. The payload must already be valid JSON; the dispatcher rejects
// anything else before it reaches here.
func Normalize(src types.Source, payload []byte) []types.SearchResult {
	doc := gjson.ParseBytes(payload)

	var results []types.SearchResult
	switch src {
	case types.SourcePaperIndex:
		results = paperResults(doc)
	case types.SourceRAG:
		results = ragResults(doc)
	case types.SourceWeb:
		results = webResults(doc)
	case types.SourceSmart:
		results = paperResults(doc)
		if len(results) == 0 {
			results = webResults(doc)
		}
	}

	if len(results) == 0 {
		return []types.SearchResult{types.NoResults}
	}
	return results
}

// paperResults reads a "results" array of {title, summary, pdf_url} objects.
// Entries that are not objects or carry neither a title nor a summary are
// skipped.
func paperResults(doc gjson.Result) []types.SearchResult {
	arr := doc.Get("results")
	if !arr.IsArray() {
		return nil
	}

	var out []types.SearchResult
	arr.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		title := stringField(v, "title")
		summary := stringField(v, "summary")
		if title == "" && summary == "" {
			return true
		}
		out = append(out, types.SearchResult{
			Title:   title,
			Summary: summary,
			PDFURL:  stringField(v, "pdf_url"),
		})
		return true
	})
	return out
}

// ragResults reads choices[0].message.content from a chat completion.
func ragResults(doc gjson.Result) []types.SearchResult {
	content := doc.Get("choices.0.message.content")
	if content.Type != gjson.String {
		return nil
	}
	return []types.SearchResult{{Title: RAGTitle, Summary: content.Str}}
}

// webResults reads a top-level "context" string and an optional "url".
func webResults(doc gjson.Result) []types.SearchResult {
	ctx := doc.Get("context")
	if ctx.Type != gjson.String || strings.TrimSpace(ctx.Str) == "" {
		return nil
	}
	return []types.SearchResult{{
		Title:   WebTitle,
		Summary: ctx.Str,
		URL:     stringField(doc, "url"),
	}}
}

// stringField returns the named field when it is a JSON string, else "".
func stringField(v gjson.Result, name string) string {
	f := v.Get(name)
	if f.Type != gjson.String {
		return ""
	}
	return f.Str
}
