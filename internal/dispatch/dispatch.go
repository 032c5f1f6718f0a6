// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dispatch sends a query to the provider for one source, waits for
// the reply and normalizes it. Failures are isolated per source: whatever
// goes wrong, a dispatch yields a non-empty result list and never an error.
package dispatch

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/research-notebook/internal/metrics"
	"github.com/pdiddy/research-notebook/internal/normalize"
	"github.com/pdiddy/research-notebook/internal/provider"
	"github.com/pdiddy/research-notebook/pkg/types"
)

// Dispatcher routes queries to providers by source.
type Dispatcher struct {
	Providers provider.Registry

	// MaxResults is sent to the paper-index and RAG providers.
	MaxResults int

	// Timeout bounds a single provider call. Zero means no extra bound.
	Timeout time.Duration

	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// New returns a Dispatcher configured from cfg.
func New(reg provider.Registry, cfg types.DispatchConfig, logger *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		Providers:  reg,
		MaxResults: cfg.MaxResults,
		Timeout:    cfg.Timeout,
		Logger:     logger,
		Metrics:    m,
	}
}

// Request builds the body sent for src: {query, max_results} for the
// paper-index and RAG sources, {query} for web and smart.
func (d *Dispatcher) Request(query string, src types.Source) provider.Request {
	req := provider.Request{Query: query}
	switch src {
	case types.SourcePaperIndex, types.SourceRAG:
		req.MaxResults = d.MaxResults
	}
	return req
}

// Dispatch calls the provider for src and returns the normalized results.
// Transport failures, invalid JSON and unknown sources all produce the
// single "Something went wrong." result.
func (d *Dispatcher) Dispatch(ctx context.Context, query string, src types.Source) (results []types.SearchResult) {
	start := time.Now()
	log := d.logger().With(zap.String("source", string(src)))
	outcome := metrics.OutcomeOK

	defer func() {
		if r := recover(); r != nil {
			log.Error("provider panicked", zap.Any("panic", r))
			results = failure()
			outcome = metrics.OutcomeFailure
		}
		d.Metrics.ObserveDispatch(src, outcome, time.Since(start))
	}()

	body, err := d.call(ctx, query, src)
	if err != nil {
		log.Warn("dispatch failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		outcome = metrics.OutcomeFailure
		return failure()
	}

	results = normalize.Normalize(src, body)
	if len(results) == 1 && results[0] == types.NoResults {
		outcome = metrics.OutcomeEmpty
	}
	log.Debug("dispatch complete",
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)))
	return results
}

func (d *Dispatcher) call(ctx context.Context, query string, src types.Source) ([]byte, error) {
	p, ok := d.Providers[src]
	if !ok || p == nil {
		return nil, errors.Errorf("no provider registered for source %q", src)
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	body, err := p.Call(ctx, d.Request(query, src))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.Errorf("%s returned invalid JSON", p.Name())
	}
	return body, nil
}

// Batch is the outcome of one dispatch within DispatchAll.
type Batch struct {
	Source  types.Source
	Results []types.SearchResult
}

// DispatchAll fans the query out to every source concurrently. onDone, when
// non-nil, is called once per source as soon as that source finishes, so
// calls arrive in completion order and may overlap. The returned batches
// follow the order of sources.
func (d *Dispatcher) DispatchAll(ctx context.Context, query string, sources []types.Source, onDone func(Batch)) []Batch {
	batches := make([]Batch, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			b := Batch{Source: src, Results: d.Dispatch(ctx, query, src)}
			batches[i] = b
			if onDone != nil {
				onDone(b)
			}
			return nil
		})
	}
	g.Wait()

	return batches
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func failure() []types.SearchResult {
	return []types.SearchResult{types.TransportFailure}
}
