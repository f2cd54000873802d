package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rurushi/panel/pkg/metrics"
)

const DefaultBaseURL = "http://localhost:8080"

// fallbackMessage is used when a failed envelope carries no error text.
const fallbackMessage = "API request failed"

// RequestError is the only error the client returns. Message is what the
// operator sees; Status is the HTTP status when a response was received.
type RequestError struct {
	Message string
	Status  int
	cause   error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.cause }

// Client talks to the streaming server. It makes exactly one attempt per
// call; there is no retry and no client-side timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    http.Header
	log        *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHeader adds a header sent on every request. Caller headers win over
// the default JSON content type.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		headers:    http.Header{},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "api-client")
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// call describes one endpoint binding. route is the metrics label and
// differs from path only for parameterised paths.
type call struct {
	method string
	path   string
	route  string
	body   any
}

// ack is the payload type of commands whose data is not used.
type ack = json.RawMessage

// request performs c and unwraps the envelope into T.
func request[T any](ctx context.Context, c *Client, cl call) (T, error) {
	var zero T

	route := cl.route
	if route == "" {
		route = cl.path
	}
	start := time.Now()
	outcome := "error"
	defer func() {
		c.metrics.ObserveRequest(route, cl.method, outcome, time.Since(start))
	}()

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return zero, &RequestError{Message: fmt.Sprintf("failed to encode request: %v", err), cause: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return zero, &RequestError{Message: err.Error(), cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range c.headers {
		req.Header[k] = vs
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", cl.method, "endpoint", cl.path, "error", err)
		return zero, &RequestError{Message: err.Error(), cause: err}
	}
	defer resp.Body.Close()

	c.log.Debug("response",
		"method", cl.method,
		"endpoint", cl.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := statusError(resp)
		c.log.Warn("request rejected", "method", cl.method, "endpoint", cl.path, "status", resp.StatusCode, "error", rerr.Message)
		return zero, rerr
	}

	var env Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, &RequestError{
			Message: fmt.Sprintf("invalid response body: %v", err),
			Status:  resp.StatusCode,
			cause:   err,
		}
	}

	if !env.Success || env.Data == nil {
		msg := fallbackMessage
		if env.Error != nil && *env.Error != "" {
			msg = *env.Error
		}
		c.log.Warn("request unsuccessful", "method", cl.method, "endpoint", cl.path, "error", msg)
		return zero, &RequestError{Message: msg, Status: resp.StatusCode}
	}

	outcome = "success"
	return *env.Data, nil
}

// statusError builds the error for a non-2xx response, preferring the
// "error" field of a JSON body over the status text.
func statusError(resp *http.Response) *RequestError {
	var body struct {
		Error *string `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != nil && *body.Error != "" {
		return &RequestError{Message: *body.Error, Status: resp.StatusCode}
	}
	text := http.StatusText(resp.StatusCode)
	if text == "" {
		text = resp.Status
	}
	return &RequestError{
		Message: fmt.Sprintf("%s: %s", fallbackMessage, text),
		Status:  resp.StatusCode,
	}
}
