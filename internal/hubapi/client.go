// Package hubapi is the request gateway for the HubSpot content API. Every
// call goes through one limiter, carries the API key of the selected portal,
// and comes back as a normalized Response with the status code attached.
package hubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public HubSpot API endpoint.
const DefaultBaseURL = "https://api.hubapi.com/"

// Environment selects which portal, and therefore which API key, a call
// targets.
type Environment int

const (
	Source Environment = iota
	Destination
)

func (e Environment) String() string {
	switch e {
	case Source:
		return "source"
	case Destination:
		return "destination"
	default:
		return fmt.Sprintf("environment(%d)", int(e))
	}
}

// Credentials holds one API key per environment. They are read-only after
// construction.
type Credentials struct {
	Source      string
	Destination string
}

func (c Credentials) key(env Environment) string {
	if env == Destination {
		return c.Destination
	}
	return c.Source
}

// Request carries the optional HTTP details of a call. A nil Request is a GET.
type Request struct {
	Method string
	Body   any
}

// Client issues content API calls. It is safe for sequential use by a single
// pipeline; the limiter serializes effective throughput.
type Client struct {
	baseURL    string
	creds      Credentials
	limiter    Limiter
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLimiter replaces the default fixed-interval limiter.
func WithLimiter(l Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets a per-request timeout. Zero means none. It applies to the
// HTTP client in use after all options ran, whatever their order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL:    baseURL,
		creds:      creds,
		limiter:    NewIntervalLimiter(DefaultInterval),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Call issues one request against env. Non-2xx answers are returned as data;
// only transport faults and limiter cancellation are returned as errors.
func (c *Client) Call(ctx context.Context, path string, env Environment, req *Request, query url.Values) (*Response, error) {
	method := http.MethodGet
	var body io.Reader
	if req != nil {
		if req.Method != "" {
			method = req.Method
		}
		if req.Body != nil {
			b, err := json.Marshal(req.Body)
			if err != nil {
				return nil, fmt.Errorf("marshal %s %s body: %w", method, path, err)
			}
			body = bytes.NewReader(b)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, env, query), body)
	if err != nil {
		return nil, fmt.Errorf("create request %s %s: %w", method, path, err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, redact(err, c.creds))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	c.logger.Debug("api call",
		"method", method,
		"path", path,
		"env", env.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	return normalize(resp.StatusCode, raw), nil
}

// Get lists or fetches from env.
func (c *Client) Get(ctx context.Context, path string, env Environment, query url.Values) (*Response, error) {
	return c.Call(ctx, path, env, nil, query)
}

// Post creates an entity in env from a JSON body.
func (c *Client) Post(ctx context.Context, path string, env Environment, body any) (*Response, error) {
	return c.Call(ctx, path, env, &Request{Method: http.MethodPost, Body: body}, nil)
}

// Delete removes the entity at path in env.
func (c *Client) Delete(ctx context.Context, path string, env Environment) (*Response, error) {
	return c.Call(ctx, path, env, &Request{Method: http.MethodDelete}, nil)
}

func (c *Client) endpoint(path string, env Environment, query url.Values) string {
	q := url.Values{}
	q.Set("hapikey", c.creds.key(env))
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return c.baseURL + strings.TrimPrefix(path, "/") + "?" + q.Encode()
}

func normalize(status int, raw []byte) *Response {
	r := &Response{Status: status, Raw: raw}
	if len(bytes.TrimSpace(raw)) == 0 {
		return r
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return r
	}
	r.Body = body
	return r
}

// redact strips API keys from transport errors, which embed the request URL.
func redact(err error, creds Credentials) error {
	msg := err.Error()
	replaced := msg
	for _, k := range []string{creds.Source, creds.Destination} {
		if k != "" {
			replaced = strings.ReplaceAll(replaced, k, "REDACTED")
		}
	}
	if replaced == msg {
		return err
	}
	return &redactedError{msg: replaced, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
