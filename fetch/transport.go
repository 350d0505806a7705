package fetch

import "context"

// Signal is an opaque cancellation handle threaded through to the
// transport. A [context.Context] satisfies it. The fetch layer never
// observes it.
type Signal interface {
	Done() <-chan struct{}
	Err() error
}

// Options is the bag of settings handed to a [Transport] along with the URL.
// It marshals to the JSON shape hosts parse.
type Options struct {
	Method         string            `json:"method"`
	Headers        map[string]string `json:"headers"`
	Body           *Payload          `json:"body,omitempty"`
	Mode           string            `json:"mode,omitempty"`
	Credentials    string            `json:"credentials,omitempty"`
	Cache          string            `json:"cache,omitempty"`
	Redirect       string            `json:"redirect,omitempty"`
	Referrer       string            `json:"referrer,omitempty"`
	ReferrerPolicy string            `json:"referrerPolicy,omitempty"`
	Integrity      string            `json:"integrity,omitempty"`
	Keepalive      bool              `json:"keepalive"`
	Signal         Signal            `json:"-"`
}

// NativeResponse is the response descriptor a [Transport] returns.
//
// The function fields are optional body-reading delegates bound to the
// transport's result. When Text is nil, readers fall back to Body.
type NativeResponse struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	OK         bool              `json:"ok"`
	URL        string            `json:"url"`
	Redirected bool              `json:"redirected"`
	Type       string            `json:"type"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body,omitempty"`

	Text        func(ctx context.Context) (string, error) `json:"-"`
	JSON        func(ctx context.Context) (any, error)    `json:"-"`
	ArrayBuffer func(ctx context.Context) ([]byte, error) `json:"-"`
	Blob        func(ctx context.Context) (*Blob, error)  `json:"-"`
	Clone       func() (*NativeResponse, error)           `json:"-"`
}

// Transport performs the actual I/O for a fetch. It is supplied by the host.
type Transport interface {
	Request(ctx context.Context, url string, opts Options) (*NativeResponse, error)
}

// TransportFunc adapts a plain function to a [Transport].
type TransportFunc func(ctx context.Context, url string, opts Options) (*NativeResponse, error)

func (f TransportFunc) Request(ctx context.Context, url string, opts Options) (*NativeResponse, error) {
	return f(ctx, url, opts)
}
