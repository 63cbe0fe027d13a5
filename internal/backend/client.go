// Package backend is the JSON/REST transport to the remote backend. Every request carries the API-Key
// header and a fresh X-Request-ID, and is traced and counted through OpenTelemetry.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
	"github.com/verrloren/hackathon-evrz/internal/logging"
	"github.com/verrloren/hackathon-evrz/internal/result"
)

const instrumentationName = "github.com/verrloren/hackathon-evrz/internal/backend"

// Header names sent on every request.
const (
	HeaderAPIKey    = "API-Key"
	HeaderRequestID = "X-Request-ID"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
	log        logrus.FieldLogger
	tracer     trace.Tracer
	requests   metric.Int64Counter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h HTTPDoer) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout bounds every request. Zero keeps the default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for request diagnostics. A nil logger keeps the default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient returns a client for baseURL. A missing URL or key is a configuration error and no client
// is returned, so no request can ever be issued without them.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	apiKey = strings.TrimSpace(apiKey)
	if baseURL == "" {
		return nil, apperr.Configuration("backend: base URL not configured")
	}
	if apiKey == "" {
		return nil, apperr.Configuration("backend: API key not configured")
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		log:        logging.Discard(),
		tracer:     otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"backend.requests",
		metric.WithDescription("Backend requests by method, path, and status class."),
	)
	if err == nil {
		c.requests = counter
	}
	return c, nil
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	// Body is JSON-encoded when non-nil.
	Body any
	// Token, when set, is sent as a Bearer session token.
	Token string
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do sends req and reads the whole body. Transport and read failures are KindNetwork errors;
// the HTTP status is not interpreted here.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	requestID := uuid.New().String()
	ctx, span := c.tracer.Start(ctx, "backend "+req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "encode body")
			return nil, apperr.Network("encode request body", err)
		}
		body = bytes.NewReader(raw)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, apperr.Network("build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(HeaderAPIKey, c.apiKey)
	httpReq.Header.Set(HeaderRequestID, requestID)
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.count(ctx, req, "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, apperr.Network(fmt.Sprintf("%s %s failed", req.Method, req.Path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.count(ctx, req, "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return nil, apperr.Network("read response body", err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.count(ctx, req, statusClass(resp.StatusCode))

	c.log.WithFields(logrus.Fields{
		"method":     req.Method,
		"path":       req.Path,
		"status":     resp.StatusCode,
		"request_id": requestID,
	}).Debug("backend: request served")

	return &Response{StatusCode: resp.StatusCode, Body: raw, RequestID: requestID}, nil
}

// PostEnvelope is the single decoding routine for the auth actions: POST, then parse {success, response}
// regardless of status. An unparseable body is a KindNetwork error.
func (c *Client) PostEnvelope(ctx context.Context, path string, body any, token string) (*result.Envelope, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Token: token})
	if err != nil {
		return nil, err
	}
	var env result.Envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, apperr.Network("decode envelope", err)
	}
	return &env, nil
}

// GetJSON issues a GET and decodes a 2xx body into out. Non-2xx statuses become a rejection carrying the
// server's {error} message, or fallback when the body has none.
func (c *Client) GetJSON(ctx context.Context, path, fallback string, out any) error {
	return c.sendJSON(ctx, Request{Method: http.MethodGet, Path: path}, fallback, out)
}

// PostJSON is GetJSON for POST with a body. out may be nil when the response is ignored.
func (c *Client) PostJSON(ctx context.Context, path string, body any, fallback string, out any) error {
	return c.sendJSON(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, fallback, out)
}

func (c *Client) sendJSON(ctx context.Context, req Request, fallback string, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return RejectionFrom(resp, fallback)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return apperr.Network("decode response", err)
	}
	return nil
}

// RejectionFrom builds a KindBackendRejection error from an error body of the form {"error": "..."}.
func RejectionFrom(resp *Response, fallback string) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil && strings.TrimSpace(body.Error) != "" {
		return apperr.Rejection(body.Error)
	}
	return apperr.Rejection(fallback)
}

func (c *Client) count(ctx context.Context, req Request, class string) {
	if c.requests == nil {
		return
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", req.Method),
		attribute.String("path", req.Path),
		attribute.String("status_class", class),
	))
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
