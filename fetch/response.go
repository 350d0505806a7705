package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync/atomic"
)

// Response types reported by [Response.Type].
const (
	TypeBasic = "basic"
	TypeError = "error"
)

// ResponseInit carries optional response fields. Zero values select the
// defaults: status 200, empty status text, type "basic".
type ResponseInit struct {
	Status     int
	StatusText string
	Headers    *Headers
	URL        string
	Redirected bool
	Type       string
}

// delegates are body readers bound to a transport result.
type delegates struct {
	text        func(ctx context.Context) (string, error)
	json        func(ctx context.Context) (any, error)
	arrayBuffer func(ctx context.Context) ([]byte, error)
	blob        func(ctx context.Context) (*Blob, error)
	clone       func() (*NativeResponse, error)
}

// Response describes a received (or locally built) response. Its body
// can be read once: the first of Text, JSON, ArrayBuffer, Blob or Decode
// consumes it, and every later read or Clone fails.
type Response struct {
	status     int
	statusText string
	ok         bool
	headers    *Headers
	url        string
	redirected bool
	typ        string

	body     Body
	native   delegates
	bodyUsed atomic.Bool
}

// NewResponse builds a local response around body.
func NewResponse(body Body, init *ResponseInit) *Response {
	if init == nil {
		init = &ResponseInit{}
	}

	status := init.Status
	if status == 0 {
		status = http.StatusOK
	}

	return newResponse(body, status, init)
}

func newResponse(body Body, status int, init *ResponseInit) *Response {
	return &Response{
		status:     status,
		statusText: init.StatusText,
		ok:         isOK(status),
		headers:    init.Headers.Clone(),
		url:        init.URL,
		redirected: init.Redirected,
		typ:        or(init.Type, TypeBasic),
		body:       body.clone(),
	}
}

// FromNative wraps a transport result. Scalar fields are copied verbatim
// and any body-reading delegates stay bound for later reads.
func FromNative(n *NativeResponse) *Response {
	r := &Response{
		status:     n.Status,
		statusText: n.StatusText,
		ok:         n.OK,
		headers:    HeadersFrom(n.Headers),
		url:        n.URL,
		redirected: n.Redirected,
		typ:        n.Type,
		body:       BodyOf(n.Body),
		native: delegates{
			text:        n.Text,
			json:        n.JSON,
			arrayBuffer: n.ArrayBuffer,
			blob:        n.Blob,
			clone:       n.Clone,
		},
	}

	return r
}

// ErrorResponse returns a network-error response: status 0, type "error".
func ErrorResponse() *Response {
	return newResponse(Body{}, 0, &ResponseInit{Type: TypeError})
}

// Redirect returns a response redirecting to url. A zero status means
// 302; anything other than 301, 302, 303, 307 or 308 fails with
// [ErrInvalidRedirectStatus].
func Redirect(url string, status int) (*Response, error) {
	if status == 0 {
		status = http.StatusFound
	}

	if !slices.Contains(redirectStatuses, status) {
		return nil, fmt.Errorf("status[%d]: %w", status, ErrInvalidRedirectStatus)
	}

	headers := NewHeaders()
	headers.Set("Location", url)

	return NewResponse(Body{}, &ResponseInit{Status: status, Headers: headers}), nil
}

var redirectStatuses = []int{
	http.StatusMovedPermanently,
	http.StatusFound,
	http.StatusSeeOther,
	http.StatusTemporaryRedirect,
	http.StatusPermanentRedirect,
}

func (r *Response) Status() int        { return r.status }
func (r *Response) StatusText() string { return r.statusText }
func (r *Response) OK() bool           { return r.ok }
func (r *Response) Headers() *Headers  { return r.headers }
func (r *Response) URL() string        { return r.url }
func (r *Response) Redirected() bool   { return r.redirected }
func (r *Response) Type() string       { return r.typ }
func (r *Response) BodyUsed() bool     { return r.bodyUsed.Load() }

// Text consumes the body and returns it as a string.
func (r *Response) Text(ctx context.Context) (string, error) {
	if err := r.consume(); err != nil {
		return "", err
	}

	return r.readText(ctx)
}

// JSON consumes the body and returns it parsed as a generic JSON value.
func (r *Response) JSON(ctx context.Context) (any, error) {
	if err := r.consume(); err != nil {
		return nil, err
	}

	if r.native.json != nil {
		return r.native.json(ctx)
	}

	text, err := r.readText(ctx)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("parsing json body: %w", err)
	}

	return v, nil
}

// Decode consumes the body and JSON-decodes it into dst, which must be a pointer.
func (r *Response) Decode(ctx context.Context, dst any) error {
	if err := r.consume(); err != nil {
		return err
	}

	var data []byte
	var err error
	if r.native.json != nil && r.native.text == nil && r.native.arrayBuffer == nil {
		v, jsonErr := r.native.json(ctx)
		if jsonErr != nil {
			return jsonErr
		}
		data, err = json.Marshal(v)
	} else {
		data, err = r.readBytes(ctx)
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}

	return nil
}

// ArrayBuffer consumes the body and returns its bytes.
func (r *Response) ArrayBuffer(ctx context.Context) ([]byte, error) {
	if err := r.consume(); err != nil {
		return nil, err
	}

	return r.readBytes(ctx)
}

// Blob consumes the body and returns it as a [Blob] typed by the
// content-type header.
func (r *Response) Blob(ctx context.Context) (*Blob, error) {
	if err := r.consume(); err != nil {
		return nil, err
	}

	if r.native.blob != nil {
		return r.native.blob(ctx)
	}

	data, err := r.readBytes(ctx)
	if err != nil {
		return nil, err
	}

	typ, _ := r.headers.Get("content-type")

	return NewBlob(data, typ), nil
}

// Clone returns a response with independent consumption state. It fails
// with [ErrCloneUsed] once the body has been read.
func (r *Response) Clone() (*Response, error) {
	if r.bodyUsed.Load() {
		return nil, ErrCloneUsed
	}

	if r.native.clone != nil {
		n, err := r.native.clone()
		if err != nil {
			return nil, fmt.Errorf("native clone: %w", err)
		}
		return FromNative(n), nil
	}

	c := newResponse(r.body, r.status, &ResponseInit{
		StatusText: r.statusText,
		Headers:    r.headers,
		URL:        r.url,
		Redirected: r.redirected,
		Type:       r.typ,
	})
	c.ok = r.ok
	c.native = delegates{
		text:        r.native.text,
		json:        r.native.json,
		arrayBuffer: r.native.arrayBuffer,
		blob:        r.native.blob,
	}

	return c, nil
}

// consume flips the response to consumed before any read starts, so a
// concurrent second read observes it.
func (r *Response) consume() error {
	if !r.bodyUsed.CompareAndSwap(false, true) {
		return ErrBodyUsed
	}

	return nil
}

func (r *Response) readText(ctx context.Context) (string, error) {
	if r.native.text != nil {
		return r.native.text(ctx)
	}

	return r.body.readText()
}

func (r *Response) readBytes(ctx context.Context) ([]byte, error) {
	if r.native.arrayBuffer != nil {
		return r.native.arrayBuffer(ctx)
	}

	if r.body.kind == BodyBytes {
		return slices.Clone(r.body.bytes), nil
	}

	text, err := r.readText(ctx)
	if err != nil {
		return nil, err
	}

	return []byte(text), nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}
