package fetch

import (
	"fmt"
	"net/http"
	"strings"
)

// Defaults applied to a request built from a URL.
const (
	DefaultMode        = "cors"
	DefaultCredentials = "same-origin"
	DefaultCache       = "default"
	DefaultRedirect    = "follow"
	DefaultReferrer    = "about:client"
)

// RequestInit carries optional request fields. Empty strings, a nil
// Headers, a zero Body, a nil Keepalive and a nil Signal count as absent.
type RequestInit struct {
	Method         string
	Headers        *Headers
	Body           Body
	Mode           string
	Credentials    string
	Cache          string
	Redirect       string
	Referrer       string
	ReferrerPolicy string
	Integrity      string
	Keepalive      *bool
	Signal         Signal
}

// Bool returns a pointer to v, for [RequestInit.Keepalive].
func Bool(v bool) *bool {
	return &v
}

// Request describes an outgoing request. It is read-only once built;
// derive modified copies with [NewRequestFrom].
type Request struct {
	url            string
	method         string
	headers        *Headers
	body           Body
	mode           string
	credentials    string
	cache          string
	redirect       string
	referrer       string
	referrerPolicy string
	integrity      string
	keepalive      bool
	signal         Signal
}

// NewRequest builds a request for rawURL. A GET or HEAD request with a
// non-empty body fails with [ErrBodyNotAllowed].
func NewRequest(rawURL string, init *RequestInit) (*Request, error) {
	if init == nil {
		init = &RequestInit{}
	}

	r := &Request{
		url:            rawURL,
		method:         or(init.Method, http.MethodGet),
		headers:        init.Headers.Clone(),
		body:           init.Body.clone(),
		mode:           or(init.Mode, DefaultMode),
		credentials:    or(init.Credentials, DefaultCredentials),
		cache:          or(init.Cache, DefaultCache),
		redirect:       or(init.Redirect, DefaultRedirect),
		referrer:       or(init.Referrer, DefaultReferrer),
		referrerPolicy: init.ReferrerPolicy,
		integrity:      init.Integrity,
		signal:         init.Signal,
	}
	if init.Keepalive != nil {
		r.keepalive = *init.Keepalive
	}

	if err := ValidateBody(r.method, r.body); err != nil {
		return nil, err
	}

	return r, nil
}

// NewRequestFrom derives a request from src. Fields present in init
// override the inherited ones; init headers override source headers of
// the same name.
func NewRequestFrom(src *Request, init *RequestInit) (*Request, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: source request is nil", ErrTypeError)
	}

	r := derive(src, init)
	if err := ValidateBody(r.method, r.body); err != nil {
		return nil, err
	}

	return r, nil
}

// Clone returns a deep copy of r.
func (r *Request) Clone() *Request {
	return derive(r, nil)
}

func derive(src *Request, init *RequestInit) *Request {
	if init == nil {
		init = &RequestInit{}
	}

	headers := src.headers.Clone()
	if init.Headers != nil {
		for _, e := range init.Headers.Entries() {
			headers.Set(e.Name, e.Value)
		}
	}

	body := src.body
	if !init.Body.IsZero() {
		body = init.Body
	}

	r := &Request{
		url:            src.url,
		method:         or(init.Method, src.method),
		headers:        headers,
		body:           body.clone(),
		mode:           or(init.Mode, src.mode),
		credentials:    or(init.Credentials, src.credentials),
		cache:          or(init.Cache, src.cache),
		redirect:       or(init.Redirect, src.redirect),
		referrer:       or(init.Referrer, src.referrer),
		referrerPolicy: or(init.ReferrerPolicy, src.referrerPolicy),
		integrity:      or(init.Integrity, src.integrity),
		keepalive:      src.keepalive,
		signal:         src.signal,
	}
	if init.Keepalive != nil {
		r.keepalive = *init.Keepalive
	}
	if init.Signal != nil {
		r.signal = init.Signal
	}

	return r
}

func (r *Request) URL() string            { return r.url }
func (r *Request) Method() string         { return r.method }
func (r *Request) Headers() *Headers      { return r.headers }
func (r *Request) Body() Body             { return r.body }
func (r *Request) Mode() string           { return r.mode }
func (r *Request) Credentials() string    { return r.credentials }
func (r *Request) Cache() string          { return r.cache }
func (r *Request) Redirect() string       { return r.redirect }
func (r *Request) Referrer() string       { return r.referrer }
func (r *Request) ReferrerPolicy() string { return r.referrerPolicy }
func (r *Request) Integrity() string      { return r.integrity }
func (r *Request) Keepalive() bool        { return r.keepalive }
func (r *Request) Signal() Signal         { return r.signal }

// ValidateBody rejects a non-empty body on GET and HEAD.
func ValidateBody(method string, body Body) error {
	if body.Empty() {
		return nil
	}

	if strings.EqualFold(method, http.MethodGet) || strings.EqualFold(method, http.MethodHead) {
		return fmt.Errorf("method[%s]: %w", method, ErrBodyNotAllowed)
	}

	return nil
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}

	return v
}
