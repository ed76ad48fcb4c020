package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	csrfHeader   = "X-XSRF-TOKEN"
	maxBodyBytes = 4 << 20
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Request describes one API call. Name labels logs and metrics and must not contain ids.
type Request struct {
	Name   string
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Option customizes BaseClient.
type Option func(*BaseClient)

// WithUnauthorizedHandler installs the global 401 interceptor.
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *BaseClient) { c.onUnauthorized = h }
}

// WithObserver records per-call metrics.
func WithObserver(o Observer) Option {
	return func(c *BaseClient) { c.observer = o }
}

// BaseClient is the single adapter in front of the parking API: it resolves paths against the
// versioned base URL, attaches credentials and classifies failures.
type BaseClient struct {
	baseURL        string
	client         HTTPDoer
	onUnauthorized UnauthorizedHandler
	observer       Observer
}

// NewBaseClient builds client with base URL and version prefix, e.g. ("http://api:8080", "/api/v1").
func NewBaseClient(baseURL, prefix string, client HTTPDoer, opts ...Option) *BaseClient {
	base := strings.TrimRight(baseURL, "/")
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		base += "/" + prefix
	}
	c := &BaseClient{
		baseURL: base,
		client:  client,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *BaseClient) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do executes the request and returns the raw body of a 2xx response.
func (c *BaseClient) Do(ctx context.Context, req Request) ([]byte, error) {
	var reader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("clients: %s: encode body: %w", req.Name, err)
		}
		reader = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(req.Path, req.Query), reader)
	if err != nil {
		return nil, fmt.Errorf("clients: %s: %w", req.Name, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if creds, ok := CredentialsFromContext(ctx); ok {
		if creds.Token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+creds.Token)
		}
		if creds.CSRFToken != "" && method != http.MethodGet {
			httpReq.Header.Set(csrfHeader, creds.CSRFToken)
		}
	}

	started := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.observe(req.Name, 0, started)
		return nil, fmt.Errorf("clients: %s: %w: %w", req.Name, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(req.Name, resp.StatusCode, started)
	if err != nil {
		return nil, fmt.Errorf("clients: %s: read body: %w: %w", req.Name, ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized.OnUnauthorized(ctx)
		}
		return nil, fmt.Errorf("clients: %s: %w", req.Name, ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Endpoint: req.Name, Status: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// JSON executes req and decodes a raw (non-enveloped) JSON body into out.
func (c *BaseClient) JSON(ctx context.Context, req Request, out any) error {
	body, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("clients: %s: decode: %w", req.Name, err)
	}
	return nil
}

func (c *BaseClient) observe(name string, status int, started time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(name, status, time.Since(started).Seconds())
}

// fetch executes req, decodes the envelope and fails on a non-OK code.
func fetch[T any](ctx context.Context, c *BaseClient, req Request) (Envelope[T], error) {
	var env Envelope[T]
	if err := c.JSON(ctx, req, &env); err != nil {
		return env, err
	}
	return env, env.Err(req.Name)
}

func errorMessage(body []byte) string {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	var plain struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &plain); err == nil {
		return plain.Error
	}
	return ""
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
