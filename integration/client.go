// Package integration provides typed HTTP clients for the sibling platform
// services consumed by the policy engine at evaluation time.
//
// Every adapter wraps one Client, which performs a single request/response
// exchange against a fixed base URL with a bounded per-call timeout and maps
// all failures into the sentinel taxonomy in errors.go. The layer performs
// no retries, no logging, and no suppression: each failure is returned to the
// immediate caller as data. HealthCheck is the one exception — it collapses
// every failure kind into false because probes are advisory.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/llm-dev-ops/policy-fabric/iox"
)

// DefaultTimeout is the per-call budget used when none is configured.
const DefaultTimeout = 5 * time.Second

// maxErrorBody caps how much of a non-2xx response body is retained
// on a CallError.
const maxErrorBody = 2048

// healthPath is the liveness probe path shared by all platform services.
const healthPath = "/health"

// Client performs typed request/response exchanges against one fixed base
// URL. Immutable after construction and safe for concurrent use; each
// adapter owns exactly one Client. Connection pooling is left to the
// underlying http.Client defaults.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for the given base URL and per-call timeout.
// A non-positive timeout falls back to DefaultTimeout. Construction performs
// no I/O and never fails; an unusable URL surfaces as ErrTransport on first
// use.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the base URL the client was constructed with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-call budget.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// HealthCheck probes the service liveness endpoint.
// Returns true only for a 2xx response within the call budget. Any failure,
// including timeout, yields false — this method never returns an error.
func (c *Client) HealthCheck(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer iox.DiscardClose(resp.Body)
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Get issues a GET against baseURL+path and decodes a 2xx JSON body into T.
// Failures are classified per errors.go; the call is never retried.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return exchange[T](ctx, c, http.MethodGet, path, nil)
}

// Post serializes body as JSON, issues a POST against baseURL+path, and
// decodes a 2xx JSON body into T. Operations with no meaningful response
// use struct{} for T; an empty success body decodes to the zero value.
func Post[T any, B any](ctx context.Context, c *Client, path string, body B) (T, error) {
	var zero T
	payload, err := json.Marshal(body)
	if err != nil {
		return zero, &CallError{Kind: ErrDecode, Op: "post", Path: path, Err: err}
	}
	return exchange[T](ctx, c, http.MethodPost, path, payload)
}

// exchange performs one request/response cycle with uniform classification.
func exchange[T any](ctx context.Context, c *Client, method, path string, body []byte) (T, error) {
	var zero T
	op := strings.ToLower(method)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, &CallError{Kind: ErrTransport, Op: op, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, &CallError{Kind: classifyRequestError(err), Op: op, Path: path, Err: err}
	}
	defer iox.DiscardClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return zero, &CallError{
			Kind:   ErrRemote,
			Op:     op,
			Path:   path,
			Status: resp.StatusCode,
			Body:   string(bytes.TrimSpace(snippet)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &CallError{Kind: classifyRequestError(err), Op: op, Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return zero, nil
	}
	if err := json.Unmarshal(data, &zero); err != nil {
		var empty T
		return empty, &CallError{Kind: ErrDecode, Op: op, Path: path, Err: err}
	}

	return zero, nil
}
