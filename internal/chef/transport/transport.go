// Package transport provides the authenticated HTTP layer used by the Chef
// server API client.
//
// The transport separates protocol concerns (connection handling, credential
// headers, error classification) from API-level concerns (endpoint shapes,
// response interpretation). Credential handling is deliberately opaque to
// callers: the facade hands the transport a user and key, and the transport
// decides how they ride on the wire.
package transport

import (
	"context"
)

// Transport executes requests against a Chef server.
type Transport interface {
	// Execute sends a request and returns a response.
	// The context controls cancellation and deadlines.
	// Returns *Error on failure.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier (e.g. "http").
	Name() string
}

// Request represents a transport-agnostic request.
type Request struct {
	// Method is the HTTP method (GET or DELETE for inventory operations)
	// Required, must be non-empty
	Method string

	// Path is the endpoint path relative to the configured base URL,
	// including any query string (e.g. "/search/node?q=*:*&start=0").
	// The path is used verbatim; callers pre-encode special characters.
	Path string

	// Headers are request headers (case-insensitive)
	// Optional, may be nil or empty map
	Headers map[string]string

	// Body is the request body
	// Optional, may be nil or empty slice
	Body []byte
}

// Response represents a transport-agnostic response.
type Response struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Headers contains response headers
	Headers map[string][]string

	// Body is the response body
	Body []byte
}
