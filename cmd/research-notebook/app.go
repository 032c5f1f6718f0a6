// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/pdiddy/research-notebook/internal/corpus"
	"github.com/pdiddy/research-notebook/internal/dispatch"
	"github.com/pdiddy/research-notebook/internal/logging"
	"github.com/pdiddy/research-notebook/internal/metrics"
	"github.com/pdiddy/research-notebook/internal/notebook"
	"github.com/pdiddy/research-notebook/internal/provider"
	"github.com/pdiddy/research-notebook/pkg/types"
)

// app holds the collaborators shared by the commands.
type app struct {
	cfg      types.Config
	logger   *zap.Logger
	store    *corpus.Store
	registry *prometheus.Registry
	session  *notebook.Session
}

// newApp wires config, logging, metrics, the provider registry and a fresh
// session. The corpus is opened only when withCorpus is set, since it
// creates its directory on first use.
func newApp(withCorpus bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(a.registry)

	opts := provider.Options{
		Secrets: loadedSecrets,
		Logger:  logger,
		TopK:    cfg.Corpus.TopK,
	}
	if withCorpus {
		store, err := corpus.NewStore(cfg.Corpus)
		if err != nil {
			return nil, err
		}
		a.store = store
		opts.Retriever = store
	}

	d := dispatch.New(provider.NewRegistry(cfg.Dispatch, opts), cfg.Dispatch, logger, m)
	a.session = notebook.NewSession(d, notebook.Options{
		Page:    cfg.Page,
		Logger:  logger,
		Metrics: m,
	})
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	a.logger.Sync()
}

// needsCorpus reports whether any source may route to the RAG backend.
func needsCorpus(sources []types.Source) bool {
	for _, s := range sources {
		if s == types.SourceRAG || s == types.SourceSmart {
			return true
		}
	}
	return false
}

// outputFlags names the files a command writes the document to.
type outputFlags struct {
	markdown string
	html     string
	pdf      string
}

// writeOutputs writes the session document to every requested file.
func writeOutputs(s *notebook.Session, out outputFlags) error {
	if out.markdown != "" || out.html != "" {
		md := s.ExportMarkdown()
		if out.markdown != "" {
			if err := os.WriteFile(out.markdown, []byte(md.Markdown), 0o644); err != nil {
				return errors.Wrap(err, "writing markdown")
			}
			fmt.Fprintf(os.Stdout, "Wrote %s\n", out.markdown)
		}
		if out.html != "" {
			if err := os.WriteFile(out.html, []byte(md.HTML), 0o644); err != nil {
				return errors.Wrap(err, "writing html")
			}
			fmt.Fprintf(os.Stdout, "Wrote %s\n", out.html)
		}
	}

	if out.pdf != "" {
		f, err := os.Create(out.pdf)
		if err != nil {
			return errors.Wrap(err, "creating pdf")
		}
		if err := s.WritePDF(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(err, "closing pdf")
		}
		fmt.Fprintf(os.Stdout, "Wrote %s (%d pages)\n", out.pdf, max(1, len(s.ExportPDFPages())))
	}
	return nil
}
