// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/research-notebook/internal/dispatch"
	"github.com/pdiddy/research-notebook/internal/export"
	"github.com/pdiddy/research-notebook/internal/metrics"
	"github.com/pdiddy/research-notebook/pkg/types"
)

// Dispatcher turns a query for one or more sources into results.
type Dispatcher interface {
	Dispatch(ctx context.Context, query string, src types.Source) []types.SearchResult
	DispatchAll(ctx context.Context, query string, sources []types.Source, onDone func(dispatch.Batch)) []dispatch.Batch
}

// Options configures a Session. Zero fields fall back to defaults.
type Options struct {
	Page     types.PageConfig
	Measurer export.Measurer
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// Session connects a dispatcher to one accumulated document.
type Session struct {
	acc        *Accumulator
	dispatcher Dispatcher
	page       types.PageConfig
	measurer   export.Measurer
	logger     *zap.Logger
	metrics    *metrics.Metrics

	wg sync.WaitGroup

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

// NewSession returns a session with an empty document.
func NewSession(d Dispatcher, opts Options) *Session {
	page := opts.Page
	if page == (types.PageConfig{}) {
		page = types.DefaultConfig().Page
	}
	measurer := opts.Measurer
	if measurer == nil {
		measurer = export.MonospaceMeasurer(page)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		acc:        &Accumulator{},
		dispatcher: d,
		page:       page,
		measurer:   measurer,
		logger:     logger,
		metrics:    opts.Metrics,
		subs:       make(map[chan struct{}]struct{}),
	}
	s.acc.onChange = s.notify
	return s
}

// SubmitQuery dispatches query to src in the background and appends the
// outcome when it arrives. It returns immediately with a dispatch ID. An
// accepted dispatch always completes: ctx supplies values only, its
// cancellation is ignored, and the dispatcher's timeout bounds the call.
func (s *Session) SubmitQuery(ctx context.Context, query string, src types.Source) string {
	id := uuid.NewString()
	dctx := context.WithoutCancel(ctx)
	log := s.logger.With(zap.String("dispatch_id", id), zap.String("source", string(src)))

	s.wg.Add(1)
	s.metrics.Submitted()
	log.Debug("query submitted", zap.String("query", query))

	go func() {
		defer s.wg.Done()
		defer s.metrics.Settled()

		results := s.dispatcher.Dispatch(dctx, query, src)
		s.acc.Append(results, src, query)
		s.metrics.ObserveAppend(src, len(results))
		log.Info("results appended", zap.Int("results", len(results)))
	}()

	return id
}

// Wait blocks until every submitted query has been appended.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Search dispatches query to every source concurrently and appends each
// batch as it completes. It returns once all sources have been appended;
// the batches follow the order of sources.
func (s *Session) Search(ctx context.Context, query string, sources ...types.Source) []dispatch.Batch {
	return s.dispatcher.DispatchAll(ctx, query, sources, func(b dispatch.Batch) {
		s.acc.Append(b.Results, b.Source, query)
		s.metrics.ObserveAppend(b.Source, len(b.Results))
	})
}

// Results returns a snapshot of every result in append order.
func (s *Session) Results() []types.SearchResult { return s.acc.Results() }

// Document returns the accumulated Markdown.
func (s *Session) Document() string { return s.acc.Document() }

// Query returns the most recently appended query.
func (s *Session) Query() string { return s.acc.Query() }

// Entries returns the recorded Append calls.
func (s *Session) Entries() []Entry { return s.acc.Entries() }

// Reset clears the document. Dispatches still in flight append to the
// cleared document when they complete.
func (s *Session) Reset() { s.acc.Reset() }

// Replay appends recorded entries to the document.
func (s *Session) Replay(entries []Entry) { s.acc.Replay(entries) }

// ExportMarkdown returns the document with its sanitized HTML rendering.
func (s *Session) ExportMarkdown() export.MarkdownExport {
	return export.ToMarkdown(s.acc.Document())
}

// ExportPDFPages lays the document out on pages.
func (s *Session) ExportPDFPages() []export.Page {
	return export.ToPaginatedPages(s.acc.Document(), s.page, s.measurer)
}

// WritePDF renders the document as a PDF onto w.
func (s *Session) WritePDF(w io.Writer) error {
	return export.WritePDF(w, s.ExportPDFPages(), s.page)
}

// Subscribe returns a channel that receives a signal after every change to
// the document. Signals coalesce: a slow reader sees at least one signal
// after the latest change. Call the returned function to unsubscribe.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		delete(s.subs, ch)
		s.subMu.Unlock()
	}
}

func (s *Session) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
