package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/adamwoolhether/fetchio/fetch"
)

// Host is a [fetch.Transport] backed by net/http. Each request's body is
// buffered in full, so the returned delegates can be called any number
// of times and from any goroutine.
type Host struct {
	c                 *http.Client
	logger            *slog.Logger
	maxBodySize       int64
	noFollowRedirects bool
}

// Build creates a [Host] with the provided options.
func Build(opts ...Option) (*Host, error) {
	h := &Host{
		c:           &http.Client{},
		logger:      slog.Default(),
		maxBodySize: DefaultMaxBodySize,
	}

	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("applying host option: %w", err)
		}
	}

	if o.client != nil {
		hc := *o.client
		h.c = &hc
	}
	if o.logger != nil {
		h.logger = o.logger
	}
	if o.timeout != nil {
		h.c.Timeout = *o.timeout
	}
	if o.maxBodySize > 0 {
		h.maxBodySize = o.maxBodySize
	}
	h.noFollowRedirects = o.noFollowRedirects

	var transport http.RoundTripper
	switch {
	case o.rt != nil:
		transport = o.rt
	case h.c.Transport != nil:
		transport = h.c.Transport
	default:
		transport = http.DefaultTransport
	}
	if o.userAgent != "" {
		transport = userAgent{value: o.userAgent, base: transport}
	}
	h.c.Transport = transport

	return h, nil
}

// Request performs the HTTP exchange described by opts.
//
// Connection failures, disallowed redirects and integrity mismatches wrap
// [fetch.ErrNetwork]. A fired signal yields [ErrAborted]; a cancelled ctx
// yields the context's error.
func (h *Host) Request(ctx context.Context, rawURL string, opts fetch.Options) (*fetch.NativeResponse, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var aborted chan struct{}
	if opts.Signal != nil {
		aborted = make(chan struct{})
		go func() {
			select {
			case <-opts.Signal.Done():
				close(aborted)
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	req, err := newRequest(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}

	hc, redirected, err := h.clientFor(opts)
	if err != nil {
		return nil, err
	}

	resp, err := hc.Do(req)
	if err != nil {
		switch {
		case isClosed(aborted):
			return nil, fmt.Errorf("%w: %w", ErrAborted, opts.Signal.Err())
		case ctx.Err() != nil && !errors.Is(err, context.DeadlineExceeded):
			return nil, ctx.Err()
		default:
			return nil, fmt.Errorf("%w: %w", fetch.ErrNetwork, err)
		}
	}
	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			h.logger.Error("failed to discard unused body", "error", err)
		}

		if err := resp.Body.Close(); err != nil {
			h.logger.Error("failed to close response body", "error", err)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodySize+1))
	if err != nil {
		if isClosed(aborted) {
			return nil, fmt.Errorf("%w: %w", ErrAborted, opts.Signal.Err())
		}
		return nil, fmt.Errorf("%w: reading body: %w", fetch.ErrNetwork, err)
	}
	if int64(len(data)) > h.maxBodySize {
		return nil, fmt.Errorf("limit[%d]: %w", h.maxBodySize, ErrBodyTooLarge)
	}

	if err := checkIntegrity(opts.Integrity, data); err != nil {
		return nil, fmt.Errorf("%w: %w", fetch.ErrNetwork, err)
	}

	h.logger.Debug("host response", "url", rawURL, "status", resp.StatusCode, "bytes", len(data), "redirected", *redirected)

	return native(response{
		status:     resp.StatusCode,
		statusText: statusText(resp),
		url:        resp.Request.URL.String(),
		redirected: *redirected,
		headers:    flatten(resp.Header),
	}, data), nil
}

// clientFor returns a client whose redirect policy matches the request's
// redirect mode. The returned flag reports whether a redirect was followed.
func (h *Host) clientFor(opts fetch.Options) (*http.Client, *bool, error) {
	var redirected bool

	mode := opts.Redirect
	if mode == "" {
		mode = fetch.DefaultRedirect
	}
	if mode == fetch.DefaultRedirect && h.noFollowRedirects {
		mode = "manual"
	}

	hc := *h.c
	switch mode {
	case "follow":
		hc.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			redirected = true
			return nil
		}
	case "manual":
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	case "error":
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return ErrRedirectNotAllowed
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedRedirect, mode)
	}

	if opts.Credentials == "omit" {
		hc.Jar = nil
	}

	return &hc, &redirected, nil
}

// newRequest translates opts into an *http.Request.
func newRequest(ctx context.Context, rawURL string, opts fetch.Options) (*http.Request, error) {
	body, contentType, err := requestBody(opts.Body)
	if err != nil {
		return nil, err
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: instantiating request: %w", fetch.ErrTypeError, err)
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	switch opts.Referrer {
	case "", fetch.DefaultReferrer, "no-referrer":
	default:
		if req.Header.Get("Referer") == "" {
			req.Header.Set("Referer", opts.Referrer)
		}
	}

	switch opts.Cache {
	case "no-store", "no-cache":
		req.Header.Set("Cache-Control", opts.Cache)
	case "reload":
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	if opts.Credentials == "omit" {
		req.Header.Del("Cookie")
		req.Header.Del("Authorization")
	}

	return req, nil
}

// requestBody returns the reader for p and the content type implied by
// its kind, if any.
func requestBody(p *fetch.Payload) (io.Reader, string, error) {
	if p == nil {
		return nil, "", nil
	}

	switch p.Kind {
	case fetch.PayloadText:
		return strings.NewReader(p.Text), "text/plain;charset=UTF-8", nil
	case fetch.PayloadBytes:
		return bytes.NewReader(p.Bytes), "", nil
	case fetch.PayloadForm:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, e := range p.Form {
			if err := w.WriteField(e[0], e[1]); err != nil {
				return nil, "", fmt.Errorf("writing form field %q: %w", e[0], err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("closing form: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	default:
		return nil, "", fmt.Errorf("%w: payload kind %d", fetch.ErrBodyEncoding, p.Kind)
	}
}

type response struct {
	status     int
	statusText string
	url        string
	redirected bool
	headers    map[string]string
}

// native builds a NativeResponse whose delegates read from data. data is
// never written to after this call.
func native(r response, data []byte) *fetch.NativeResponse {
	return &fetch.NativeResponse{
		Status:     r.status,
		StatusText: r.statusText,
		OK:         r.status >= 200 && r.status < 300,
		URL:        r.url,
		Redirected: r.redirected,
		Type:       fetch.TypeBasic,
		Headers:    r.headers,

		Text: func(context.Context) (string, error) {
			return string(data), nil
		},
		JSON: func(context.Context) (any, error) {
			var v any
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, fmt.Errorf("parsing json body: %w", err)
			}
			return v, nil
		},
		ArrayBuffer: func(context.Context) ([]byte, error) {
			return slices.Clone(data), nil
		},
		Blob: func(context.Context) (*fetch.Blob, error) {
			typ := r.headers["content-type"]
			if typ == "" {
				typ = mimetype.Detect(data).String()
			}
			return fetch.NewBlob(data, typ), nil
		},
		Clone: func() (*fetch.NativeResponse, error) {
			return native(r, data), nil
		},
	}
}

// flatten lowercases header names and joins repeated values with ", ".
func flatten(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[strings.ToLower(k)] = strings.Join(vs, ", ")
	}

	return out
}

func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok {
		return text
	}

	return http.StatusText(resp.StatusCode)
}

func isClosed(ch chan struct{}) bool {
	if ch == nil {
		return false
	}

	select {
	case <-ch:
		return true
	default:
		return false
	}
}
