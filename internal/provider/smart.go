// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Route names the backend the smart provider picks for a query.
type Route string

const (
	RoutePaper Route = "paper"
	RouteRAG   Route = "rag"
	RouteWeb   Route = "web"
)

var (
	paperWords = map[string]bool{"arxiv": true, "paper": true, "papers": true}
	ragWords   = map[string]bool{"rag": true}
)

// SmartProvider proxies to another provider chosen from the query text:
// queries mentioning arxiv or papers go to the paper index, queries
// mentioning rag go to the RAG backend, everything else goes to the web.
// Its payload is always in the paper-index or web shape.
type SmartProvider struct {
	Paper Provider
	RAG   Provider
	Web   Provider
}

// Name returns the provider identifier.
func (p *SmartProvider) Name() string { return "smart" }

// Choose returns the route for query.
func Choose(query string) Route {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if paperWords[w] {
			return RoutePaper
		}
	}
	for _, w := range words {
		if ragWords[w] {
			return RouteRAG
		}
	}
	return RouteWeb
}

// Call forwards req to the routed provider.
func (p *SmartProvider) Call(ctx context.Context, req Request) ([]byte, error) {
	switch Choose(req.Query) {
	case RoutePaper:
		if p.Paper == nil {
			return nil, errors.New("smart: no paper-index provider")
		}
		return p.Paper.Call(ctx, req)

	case RouteRAG:
		if p.RAG == nil {
			return nil, errors.New("smart: no RAG provider")
		}
		raw, err := p.RAG.Call(ctx, req)
		if err != nil {
			return nil, err
		}
		content := gjson.GetBytes(raw, "choices.0.message.content")
		if content.Type != gjson.String {
			return raw, nil
		}
		return json.Marshal(WebPayload{Context: content.Str})

	default:
		if p.Web == nil {
			return nil, errors.New("smart: no web provider")
		}
		return p.Web.Call(ctx, req)
	}
}
