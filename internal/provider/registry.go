// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/research-notebook/internal/secrets"
	"github.com/pdiddy/research-notebook/pkg/types"
)

// Registry maps each searchable source to its provider.
type Registry map[types.Source]Provider

// Options carries the collaborators needed to build the built-in backends.
type Options struct {
	Client    *http.Client
	Retriever Retriever
	// Secrets supplies API keys missing from the provider config.
	Secrets map[string]string
	Logger  *zap.Logger
	TopK    int
}

// NewRegistry builds one provider per source. A source with an endpoint
// configured is served by an EndpointProvider; otherwise its built-in
// backend is used. The smart source proxies to the other three.
func NewRegistry(cfg types.DispatchConfig, opts Options) Registry {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	endpoint := func(src types.Source, url string) Provider {
		return &EndpointProvider{
			Label:      string(src),
			URL:        url,
			Client:     client,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger.With(zap.String("provider", string(src))),
		}
	}

	reg := Registry{}

	if url := cfg.PaperIndex.Endpoint; url != "" {
		reg[types.SourcePaperIndex] = endpoint(types.SourcePaperIndex, url)
	} else {
		reg[types.SourcePaperIndex] = &ArxivProvider{
			Client:     client,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger.With(zap.String("provider", "arxiv")),
		}
	}

	if url := cfg.RAG.Endpoint; url != "" {
		reg[types.SourceRAG] = endpoint(types.SourceRAG, url)
	} else {
		reg[types.SourceRAG] = &RAGProvider{
			Retriever:  opts.Retriever,
			BaseURL:    cfg.RAG.BaseURL,
			APIKey:     firstNonEmpty(cfg.RAG.APIKey, opts.Secrets[secrets.RAGAPIKey]),
			Model:      cfg.RAG.Model,
			TopK:       opts.TopK,
			Client:     client,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger.With(zap.String("provider", "rag")),
		}
	}

	if url := cfg.Web.Endpoint; url != "" {
		reg[types.SourceWeb] = endpoint(types.SourceWeb, url)
	} else {
		reg[types.SourceWeb] = &TavilyProvider{
			APIKey:     firstNonEmpty(cfg.Web.APIKey, opts.Secrets[secrets.TavilyAPIKey]),
			Client:     client,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger.With(zap.String("provider", "tavily")),
		}
	}

	if url := cfg.Smart.Endpoint; url != "" {
		reg[types.SourceSmart] = endpoint(types.SourceSmart, url)
	} else {
		reg[types.SourceSmart] = &SmartProvider{
			Paper: reg[types.SourcePaperIndex],
			RAG:   reg[types.SourceRAG],
			Web:   reg[types.SourceWeb],
		}
	}

	return reg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
