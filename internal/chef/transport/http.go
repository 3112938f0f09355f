package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPTransport implements the Transport interface for HTTP requests against
// a Chef server. Credentials are carried as Chef-style headers with
// configurable timeouts and default headers.
type HTTPTransport struct {
	config *HTTPConfig
	client *http.Client
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// BaseURL is the server base URL, e.g. "http://chef.example.com:4000" (required)
	BaseURL string

	// Timeout bounds each request. Zero means no timeout: the request blocks
	// until the server responds.
	Timeout time.Duration

	// Headers are default headers applied to all requests
	Headers map[string]string

	// Credentials configures Chef server authentication
	Credentials *Credentials
}

// Credentials identifies the API user against the Chef server. The key is
// the client key material or a path to it; how requests are signed with it
// is the transport's concern and invisible to the API facade.
type Credentials struct {
	// User is the API user name (e.g. a client or user object name)
	User string

	// Key is the API key for that user
	Key string
}

// Validate checks if the configuration is valid.
func (c *HTTPConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base URL must include host")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}

	return nil
}

// NewHTTPTransport creates a new HTTP transport with the given configuration.
func NewHTTPTransport(config *HTTPConfig) (*HTTPTransport, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,

			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return &HTTPTransport{
		config: config,
		client: client,
	}, nil
}

// Name returns "http".
func (t *HTTPTransport) Name() string {
	return "http"
}

// Execute sends an HTTP request and returns the response.
// No retries are performed; every request is all-or-nothing.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := t.validateRequest(req); err != nil {
		return nil, &Error{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("invalid request: %s", err.Error()),
			Cause:   err,
		}
	}

	httpReq, err := t.buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("failed to build HTTP request: %s", err.Error()),
			Cause:   err,
		}
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, t.classifyHTTPError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeConnection,
			Message: fmt.Sprintf("failed to read response body: %s", err.Error()),
			Cause:   err,
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if httpResp.StatusCode >= 400 {
		return nil, classifyStatusError(httpResp.StatusCode, body)
	}

	return resp, nil
}

// validateRequest checks if the request is valid.
func (t *HTTPTransport) validateRequest(req *Request) error {
	if req.Method == "" {
		return fmt.Errorf("method is required")
	}

	validMethods := map[string]bool{
		"GET": true, "POST": true, "PUT": true, "DELETE": true, "HEAD": true,
	}
	if !validMethods[req.Method] {
		return fmt.Errorf("invalid HTTP method: %q", req.Method)
	}

	if req.Path == "" {
		return fmt.Errorf("path is required")
	}

	return nil
}

// buildHTTPRequest constructs an http.Request from a transport Request.
// The endpoint path is concatenated onto the base URL verbatim.
func (t *HTTPTransport) buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.config.BaseURL+req.Path, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range t.config.Headers {
		httpReq.Header.Set(key, value)
	}

	// Request headers override defaults
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if creds := t.config.Credentials; creds != nil {
		if creds.User != "" {
			httpReq.Header.Set("X-Ops-Userid", creds.User)
		}
		if creds.Key != "" {
			httpReq.Header.Set("X-Ops-Authorization", creds.Key)
		}
	}

	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return httpReq, nil
}

// classifyHTTPError classifies HTTP client errors into transport error types.
func (t *HTTPTransport) classifyHTTPError(err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Type:    ErrorTypeCancelled,
			Message: "request cancelled",
			Cause:   err,
		}
	}

	if isTimeoutError(err) {
		return &Error{
			Type:    ErrorTypeTimeout,
			Message: "request timeout",
			Cause:   err,
		}
	}

	return &Error{
		Type:    ErrorTypeConnection,
		Message: fmt.Sprintf("HTTP error: %s", err.Error()),
		Cause:   err,
	}
}

// classifyStatusError classifies HTTP status code errors.
func classifyStatusError(statusCode int, body []byte) *Error {
	var errorType ErrorType
	switch {
	case statusCode == 401 || statusCode == 403:
		errorType = ErrorTypeAuth
	case statusCode == 404:
		errorType = ErrorTypeNotFound
	case statusCode == 408:
		errorType = ErrorTypeTimeout
	case statusCode >= 500:
		errorType = ErrorTypeServer
	default:
		errorType = ErrorTypeClient
	}

	message := fmt.Sprintf("HTTP %d", statusCode)
	if len(body) > 0 && len(body) < 500 {
		message = fmt.Sprintf("HTTP %d: %s", statusCode, strings.TrimSpace(string(body)))
	}

	return &Error{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
	}
}

// isTimeoutError checks if an error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
