// Package client talks to the nodebook REST backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
)

const (
	DefaultBaseURL    = "http://localhost:8000/api"
	DefaultTimeout    = 10 * time.Second
	DefaultLLMTimeout = 90 * time.Second
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// Unwrap maps the status onto the shared error taxonomy.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return apperrors.ErrValidation
	case e.StatusCode == http.StatusConflict:
		return apperrors.ErrConflict
	case e.StatusCode >= 500:
		return apperrors.ErrUnavailable
	default:
		return nil
	}
}

// Client is the remote side of the resource layer. A circuit breaker stops
// calling a backend that keeps failing so callers degrade without waiting out
// every timeout.
type Client struct {
	baseURL string
	http    *http.Client
	llmHTTP *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

type Option func(*Client)

func WithTimeouts(general, llm time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = general
		c.llmHTTP.Timeout = llm
	}
}

// WithTransport swaps the round tripper of both HTTP clients.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
		c.llmHTTP.Transport = rt
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBreakerSettings replaces the default circuit breaker settings.
func WithBreakerSettings(s gobreaker.Settings) Option {
	return func(c *Client) { c.breaker = newBreaker(s, c) }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		llmHTTP: &http.Client{Timeout: DefaultLLMTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("client")
	if c.breaker == nil {
		c.breaker = newBreaker(gobreaker.Settings{
			Name:        "nodebook-api",
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}, c)
	}
	return c
}

func newBreaker(s gobreaker.Settings, c *Client) *gobreaker.CircuitBreaker {
	// Only an unreachable or failing backend counts against the breaker, a
	// 404 or 400 is a healthy answer.
	s.IsSuccessful = func(err error) bool {
		return err == nil || !errors.Is(err, apperrors.ErrUnavailable)
	}
	onChange := s.OnStateChange
	s.OnStateChange = func(name string, from, to gobreaker.State) {
		c.log.Warn("circuit breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
		if onChange != nil {
			onChange(name, from, to)
		}
	}
	return gobreaker.NewCircuitBreaker(s)
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	llm    bool
}

func (c *Client) do(ctx context.Context, req call) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s %s: %w: %w", req.method, req.path, apperrors.ErrUnavailable, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, req call) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(raw)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	hc := c.http
	if req.llm {
		hc = c.llmHTTP
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w: %w", req.method, req.path, apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", req.method, req.path, readStatusError(resp))
	}
	if req.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		return fmt.Errorf("decode %s %s: %w: %w", req.method, req.path, apperrors.ErrUnavailable, err)
	}
	return nil
}

func readStatusError(resp *http.Response) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return se
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) != nil || len(payload.Detail) == 0 {
		se.Detail = strings.TrimSpace(string(raw))
		return se
	}
	var detail string
	if json.Unmarshal(payload.Detail, &detail) == nil {
		se.Detail = detail
	} else {
		se.Detail = string(payload.Detail)
	}
	return se
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path, query: query, out: out})
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, body: body, out: out})
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, call{method: http.MethodPut, path: path, body: body, out: out})
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: path})
}

func idQuery(name string, id uint) url.Values {
	if id == 0 {
		return nil
	}
	return url.Values{name: {fmt.Sprint(id)}}
}
