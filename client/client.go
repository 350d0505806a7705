// Package client exposes the fetch entry point over an injected transport.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/fetchio/client/throttle"
	"github.com/adamwoolhether/fetchio/fetch"
)

// Client turns fetch calls into transport calls and wraps the results
// as [fetch.Response] values. It is safe for concurrent use.
type Client struct {
	transport      fetch.Transport
	logger         *slog.Logger
	tracer         trace.Tracer
	clock          clock.Clock
	defaultHeaders map[string]string
	isNetworkErr   func(error) bool
}

// call is the effective set of fields for one fetch, before encoding.
type call struct {
	url     string
	opts    fetch.Options
	headers map[string]string
	body    fetch.Body
}

// Build creates a [Client] over transport with the provided options.
func Build(transport fetch.Transport, optFns ...Option) (*Client, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}

	client := &Client{
		transport:    transport,
		logger:       slog.Default(),
		tracer:       noop.NewTracerProvider().Tracer("no-op tracer"),
		clock:        clock.New(),
		isNetworkErr: IsNetworkError,
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}
	if opts.tracer != nil {
		client.tracer = opts.tracer
	}
	if opts.clock != nil {
		client.clock = opts.clock
	}
	if opts.isNetworkErr != nil {
		client.isNetworkErr = opts.isNetworkErr
	}

	client.defaultHeaders = make(map[string]string, len(opts.defaultHeaders)+1)
	for k, v := range opts.defaultHeaders {
		client.defaultHeaders[strings.ToLower(k)] = v
	}
	if opts.userAgent != "" {
		client.defaultHeaders["user-agent"] = opts.userAgent
	}

	if opts.throttle != nil {
		t, err := throttle.NewTransport(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, client.transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		client.transport = t
	}

	return client, nil
}

// Fetch requests rawURL. Fields absent from init are left for the
// transport to default, except the method which defaults to GET.
//
// Misuse such as a body on a GET request is reported before the transport
// is called. A transport failure classified as a network failure yields
// [fetch.ErrorResponse] and a nil error. Any other failure is returned
// wrapped in a [*TransportError] carrying the method and URL; the
// transport's own error is reachable only through [errors.Is] and
// [errors.As].
func (c *Client) Fetch(ctx context.Context, rawURL string, init *fetch.RequestInit) (*fetch.Response, error) {
	cl := call{
		url:  rawURL,
		opts: fetch.Options{Method: http.MethodGet},
	}
	cl.merge(init)

	return c.do(ctx, cl)
}

// FetchRequest sends req. Fields present in init override the request's
// own, key by key; init headers replace the request headers as a whole.
func (c *Client) FetchRequest(ctx context.Context, req *fetch.Request, init *fetch.RequestInit) (*fetch.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", fetch.ErrTypeError)
	}

	cl := call{
		url: req.URL(),
		opts: fetch.Options{
			Method:         req.Method(),
			Mode:           req.Mode(),
			Credentials:    req.Credentials(),
			Cache:          req.Cache(),
			Redirect:       req.Redirect(),
			Referrer:       req.Referrer(),
			ReferrerPolicy: req.ReferrerPolicy(),
			Integrity:      req.Integrity(),
			Keepalive:      req.Keepalive(),
			Signal:         req.Signal(),
		},
		headers: req.Headers().Map(),
		body:    req.Body(),
	}
	cl.merge(init)

	return c.do(ctx, cl)
}

func (c *Client) do(ctx context.Context, cl call) (*fetch.Response, error) {
	if err := fetch.ValidateBody(cl.opts.Method, cl.body); err != nil {
		return nil, err
	}

	headers := cl.headers
	for k, v := range c.defaultHeaders {
		if !hasHeader(headers, k) {
			if headers == nil {
				headers = make(map[string]string, len(c.defaultHeaders))
			}
			headers[k] = v
		}
	}

	payload, headers, err := fetch.Encode(cl.body, headers)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", cl.opts.Method),
			attribute.String("url.full", cl.url),
		),
	)
	defer span.End()

	if headers == nil {
		headers = make(map[string]string)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

	opts := cl.opts
	opts.Headers = headers
	opts.Body = payload

	fetchID := span.SpanContext().TraceID().String()
	if !span.SpanContext().TraceID().IsValid() {
		fetchID = uuid.NewString()
	}
	logger := c.logger.With("fetch_id", fetchID, "method", opts.Method, "url", cl.url)

	start := c.clock.Now()

	native, err := c.transport.Request(ctx, cl.url, opts)
	if err != nil {
		span.RecordError(err)

		if c.isNetworkErr(err) {
			span.SetStatus(codes.Error, "network failure")
			logger.Warn("network failure, returning error response", "error", err, "took", c.clock.Since(start).String())
			return fetch.ErrorResponse(), nil
		}

		span.SetStatus(codes.Error, "transport failure")
		return nil, &TransportError{Method: opts.Method, URL: cl.url, Err: err}
	}
	if native == nil {
		span.SetStatus(codes.Error, "nil response")
		return nil, &TransportError{Method: opts.Method, URL: cl.url, Err: ErrNilResponse}
	}

	resp := fetch.FromNative(native)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.Status()))

	logger.Debug("fetch complete", "status", resp.Status(), "took", c.clock.Since(start).String())

	return resp, nil
}

// merge shallow-merges init over the call, init winning for every field
// it carries.
func (cl *call) merge(init *fetch.RequestInit) {
	if init == nil {
		return
	}

	setIf(&cl.opts.Method, init.Method)
	setIf(&cl.opts.Mode, init.Mode)
	setIf(&cl.opts.Credentials, init.Credentials)
	setIf(&cl.opts.Cache, init.Cache)
	setIf(&cl.opts.Redirect, init.Redirect)
	setIf(&cl.opts.Referrer, init.Referrer)
	setIf(&cl.opts.ReferrerPolicy, init.ReferrerPolicy)
	setIf(&cl.opts.Integrity, init.Integrity)

	if init.Keepalive != nil {
		cl.opts.Keepalive = *init.Keepalive
	}
	if init.Signal != nil {
		cl.opts.Signal = init.Signal
	}
	if init.Headers != nil {
		cl.headers = init.Headers.Map()
	}
	if !init.Body.IsZero() {
		cl.body = init.Body
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}

	return false
}
