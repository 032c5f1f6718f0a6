// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research notebook:
// the normalized SearchResult, the Source tag that produced it, and the
// configuration structs for every stage.
package types

import (
	"strings"

	"github.com/pkg/errors"
)

// Source identifies which backend produced a result. It selects both the
// normalization rule and the formatting rule.
type Source string

const (
	SourcePaperIndex Source = "paper-index"
	SourceRAG        Source = "retrieval-augmented"
	SourceWeb        Source = "web"
	SourceSmart      Source = "smart"
	SourceError      Source = "error"
)

// Sources lists the searchable sources in their canonical order. SourceError
// is not searchable and is therefore absent.
var Sources = []Source{SourcePaperIndex, SourceRAG, SourceWeb, SourceSmart}

// SourceNames joins the canonical names of Sources with sep.
func SourceNames(sep string) string {
	names := make([]string, len(Sources))
	for i, src := range Sources {
		names[i] = string(src)
	}
	return strings.Join(names, sep)
}

var sourceAliases = map[string]Source{
	"paper-index":         SourcePaperIndex,
	"paper":               SourcePaperIndex,
	"papers":              SourcePaperIndex,
	"arxiv":               SourcePaperIndex,
	"retrieval-augmented": SourceRAG,
	"rag":                 SourceRAG,
	"web":                 SourceWeb,
	"search":              SourceWeb,
	"smart":               SourceSmart,
	"error":               SourceError,
}

// ParseSource converts a user-supplied name (canonical or alias) into a Source.
func ParseSource(s string) (Source, error) {
	src, ok := sourceAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", errors.Errorf("unknown source %q (want one of %s)", s, SourceNames(", "))
	}
	return src, nil
}

// ParseSources parses a comma-separated list of source names.
func ParseSources(list string) ([]Source, error) {
	var out []Source
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		src, err := ParseSource(part)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	if len(out) == 0 {
		return nil, errors.New("no sources given")
	}
	return out, nil
}

// String returns the canonical source name.
func (s Source) String() string { return string(s) }

// SearchResult is the uniform record every provider response is normalized
// into. A SearchResult is never mutated after it has been appended to a
// notebook.
type SearchResult struct {
	// Title is the human-readable heading of the result.
	Title string `json:"title" yaml:"title"`

	// Summary is the result body; it may contain embedded newlines.
	Summary string `json:"summary" yaml:"summary"`

	// PDFURL is set only for paper-index results that link a PDF.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// URL is set only for web results that link a source page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Synthetic results produced when a provider yields nothing usable.
var (
	// NoResults replaces a payload whose expected fields are missing.
	NoResults = SearchResult{Title: "Error", Summary: "No results found."}

	// TransportFailure replaces a provider call that failed outright.
	TransportFailure = SearchResult{Title: "Error", Summary: "Something went wrong."}
)
