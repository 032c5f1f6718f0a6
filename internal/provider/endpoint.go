// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pdiddy/research-notebook/internal/httputil"
)

// EndpointProvider POSTs the request as JSON to a remote search service and
// returns the response body unchanged.
type EndpointProvider struct {
	Label      string
	URL        string
	Client     *http.Client
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// Name returns the provider identifier.
func (p *EndpointProvider) Name() string { return p.Label }

// Call sends req to the configured endpoint.
func (p *EndpointProvider) Call(ctx context.Context, req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encoding request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, httpReq, p.MaxRetries, p.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "%s request", p.Label)
	}
	defer resp.Body.Close()

	return readBody(p.Label, resp)
}
