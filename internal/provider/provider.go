// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements the search backends the dispatcher calls.
// Every provider returns the backend's raw JSON body; interpreting it is the
// normalizer's job.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Request is the JSON body sent to a provider. MaxResults is omitted for
// sources that do not take it.
type Request struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// Provider performs one call against a search backend. Implementations must
// honor ctx cancellation and return an error for any non-success outcome.
type Provider interface {
	Name() string
	Call(ctx context.Context, req Request) ([]byte, error)
}

// StatusError reports a non-OK HTTP response from a backend.
type StatusError struct {
	Backend string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.Backend, e.Code)
	}
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Backend, e.Code, e.Body)
}

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 512

// readBody returns the response body, or a StatusError for a non-OK status.
func readBody(backend string, resp *http.Response) ([]byte, error) {
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Backend: backend, Code: resp.StatusCode, Body: string(snippet)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s response", backend)
	}
	return body, nil
}
