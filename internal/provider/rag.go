// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pdiddy/research-notebook/internal/corpus"
	"github.com/pdiddy/research-notebook/internal/httputil"
)

// Retriever finds corpus documents relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]corpus.Document, error)
}

const (
	ragTemperature = 0.7
	ragMaxTokens   = 200

	// maxDocChars bounds how much of each retrieved document enters the prompt.
	maxDocChars = 2000
)

// RAGProvider retrieves documents from the local corpus and asks an
// OpenAI-compatible chat completion API to answer from them. The completion
// response body is returned unchanged ({"choices": [...]}).
type RAGProvider struct {
	Retriever  Retriever
	BaseURL    string
	APIKey     string
	Model      string
	TopK       int
	Client     *http.Client
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// Name returns the provider identifier.
func (p *RAGProvider) Name() string { return "rag" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// Call answers req.Query from the retrieved documents.
func (p *RAGProvider) Call(ctx context.Context, req Request) ([]byte, error) {
	if p.BaseURL == "" {
		return nil, errors.New("RAG base URL not configured")
	}

	var docs []corpus.Document
	if p.Retriever != nil {
		var err error
		docs, err = p.Retriever.Retrieve(ctx, req.Query, p.TopK)
		if err != nil {
			return nil, errors.Wrap(err, "retrieving documents")
		}
	}
	p.logger().Debug("retrieved documents", zap.String("query", req.Query), zap.Int("count", len(docs)))

	body, err := json.Marshal(chatRequest{
		Model:       p.Model,
		Messages:    []chatMessage{{Role: "user", Content: ragPrompt(req.Query, docs)}},
		Temperature: ragTemperature,
		MaxTokens:   ragMaxTokens,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding request")
	}

	url := strings.TrimRight(p.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	if p.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, httpReq, p.MaxRetries, p.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion request")
	}
	defer resp.Body.Close()

	return readBody("chat completion API", resp)
}

func (p *RAGProvider) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// ragPrompt combines the query with the retrieved documents.
func ragPrompt(query string, docs []corpus.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", query)
	if len(docs) == 0 {
		b.WriteString("Text Documents: none\n")
		return b.String()
	}
	b.WriteString("Text Documents:\n")
	for i, d := range docs {
		content := d.Content
		if r := []rune(content); len(r) > maxDocChars {
			content = string(r[:maxDocChars]) + "..."
		}
		fmt.Fprintf(&b, "[%d] %s\n%s\n\n", i+1, d.Title, strings.TrimSpace(content))
	}
	return b.String()
}
