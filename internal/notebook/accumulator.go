// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook owns the research document: the append-only list of
// results, the Markdown text built from them, and the session that feeds
// dispatched queries into it.
package notebook

import (
	"strings"
	"sync"

	"github.com/pdiddy/research-notebook/internal/format"
	"github.com/pdiddy/research-notebook/pkg/types"
)

// Entry records one Append call.
type Entry struct {
	Query   string               `json:"query" yaml:"query"`
	Source  types.Source         `json:"source" yaml:"source"`
	Results []types.SearchResult `json:"results" yaml:"results"`
}

// Accumulator holds the results and document for one session. Append is
// the only mutation besides Reset; it runs under a lock so the fragments of
// concurrent calls are never interleaved. The zero value is ready to use.
type Accumulator struct {
	mu       sync.RWMutex
	results  []types.SearchResult
	entries  []Entry
	document strings.Builder
	query    string
	onChange func()
}

// Append adds results to the list in order and appends their formatted
// fragment (a query header followed by one block per result) to the
// document. It returns the fragment.
func (a *Accumulator) Append(results []types.SearchResult, src types.Source, query string) string {
	fragment := format.Batch(results, src, query)
	kept := append([]types.SearchResult(nil), results...)

	a.mu.Lock()
	a.results = append(a.results, kept...)
	a.entries = append(a.entries, Entry{Query: query, Source: src, Results: kept})
	a.document.WriteString(fragment)
	a.query = query
	notify := a.onChange
	a.mu.Unlock()

	if notify != nil {
		notify()
	}
	return fragment
}

// Results returns a copy of every result appended so far, in order.
func (a *Accumulator) Results() []types.SearchResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]types.SearchResult{}, a.results...)
}

// Document returns the accumulated Markdown.
func (a *Accumulator) Document() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.document.String()
}

// Query returns the query of the most recent Append.
func (a *Accumulator) Query() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.query
}

// Entries returns a copy of the recorded Append calls, in call order.
func (a *Accumulator) Entries() []Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Entry, len(a.entries))
	for i, e := range a.entries {
		e.Results = append([]types.SearchResult(nil), e.Results...)
		out[i] = e
	}
	return out
}

// Reset empties the accumulator.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	a.results = nil
	a.entries = nil
	a.document.Reset()
	a.query = ""
	notify := a.onChange
	a.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Replay appends every entry in order.
func (a *Accumulator) Replay(entries []Entry) {
	for _, e := range entries {
		a.Append(e.Results, e.Source, e.Query)
	}
}

// Rebuild returns the document that replaying entries would produce.
func Rebuild(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(format.Batch(e.Results, e.Source, e.Query))
	}
	return b.String()
}
