// Package providers defines the common interface implemented by every
// upstream shopping-search backend, plus the error taxonomy and the shared
// HTTP plumbing they all use.
package providers

import (
	"context"
	"fmt"

	"github.com/pricescope/pricescope/pkg/product"
)

// Provider is one upstream shopping-search backend. Search returns the
// normalized listings for a free-text query, an empty slice when the
// provider has nothing, or an *UpstreamError when the call itself failed.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]product.Product, error)
}

// ErrorKind distinguishes the ways an upstream call can fail.
type ErrorKind string

const (
	ErrTimeout          ErrorKind = "timeout"
	ErrBadResponse      ErrorKind = "bad_response"
	ErrMalformedPayload ErrorKind = "malformed_payload"
)

// UpstreamError wraps a failed provider call. The pipeline recovers from
// these locally by falling through to the next provider.
type UpstreamError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
