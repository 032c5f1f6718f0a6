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

	"github.com/pdiddy/research-notebook/internal/httputil"
)

// tavilyAPIURL is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIURL = "https://api.tavily.com/search"

const defaultTavilyResults = 5

// TavilyProvider queries the Tavily search API and answers in the web payload
// shape: {"context": "...", "url": "..."}. The context is the generated
// answer followed by one line per result snippet; url is the top result.
type TavilyProvider struct {
	APIKey     string
	Client     *http.Client
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// Name returns the provider identifier.
func (p *TavilyProvider) Name() string { return "tavily" }

type tavilyRequest struct {
	Query         string `json:"query"`
	APIKey        string `json:"api_key"`
	SearchDepth   string `json:"search_depth,omitempty"`
	IncludeAnswer bool   `json:"include_answer,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer,omitempty"`
	Results []tavilyResult `json:"results"`
}

// WebPayload is the web response body.
type WebPayload struct {
	Context string `json:"context,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Call searches the web for req.Query.
func (p *TavilyProvider) Call(ctx context.Context, req Request) ([]byte, error) {
	if p.APIKey == "" {
		return nil, errors.New("tavily API key not configured")
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultTavilyResults
	}

	body, err := json.Marshal(tavilyRequest{
		Query:         req.Query,
		APIKey:        p.APIKey,
		SearchDepth:   "basic",
		IncludeAnswer: true,
		MaxResults:    maxResults,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, httpReq, p.MaxRetries, p.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "tavily request")
	}
	defer resp.Body.Close()

	raw, err := readBody("tavily", resp)
	if err != nil {
		return nil, err
	}

	var tr tavilyResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, errors.Wrap(err, "parsing tavily response")
	}

	return json.Marshal(tavilyContext(tr))
}

// tavilyContext flattens a Tavily response into the web payload.
func tavilyContext(tr tavilyResponse) WebPayload {
	var parts []string
	if answer := strings.TrimSpace(tr.Answer); answer != "" {
		parts = append(parts, answer)
	}
	for _, r := range tr.Results {
		snippet := strings.TrimSpace(r.Content)
		if snippet == "" {
			continue
		}
		if r.Title != "" {
			snippet = fmt.Sprintf("%s: %s", strings.TrimSpace(r.Title), snippet)
		}
		parts = append(parts, snippet)
	}

	out := WebPayload{Context: strings.Join(parts, "\n")}
	if len(tr.Results) > 0 {
		out.URL = tr.Results[0].URL
	}
	return out
}
