// Package transport is the HTTP boundary shared by the identity and resource
// API clients. It knows nothing about either wire contract: callers hand it a
// fully described request and parse the returned body themselves.
package transport

import (
	"context"
	"time"
)

type Request struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

// Adapter executes one request. Failures it returns are transport failures
// (network, status-line, body-read); application-level error envelopes ride
// inside a successful Response for the caller to interpret.
type Adapter interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// Func adapts a bare function to the Adapter contract, mostly for tests.
type Func func(ctx context.Context, req Request) (Response, error)

func (f Func) Do(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
