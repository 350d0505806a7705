// Package fetchio exposes client builders and a package-level Fetch.
package fetchio

import (
	"context"
	"fmt"
	"sync"

	"github.com/adamwoolhether/fetchio/client"
	"github.com/adamwoolhether/fetchio/fetch"
	"github.com/adamwoolhether/fetchio/host"
)

// NewClient instantiates a new *Client over transport with the provided options.
func NewClient(transport fetch.Transport, opts ...client.Option) (*client.Client, error) {
	return client.Build(transport, opts...)
}

// NewHTTPClient instantiates a new *Client backed by a net/http [host.Host].
func NewHTTPClient(hostOpts []host.Option, opts ...client.Option) (*client.Client, error) {
	h, err := host.Build(hostOpts...)
	if err != nil {
		return nil, fmt.Errorf("building host: %w", err)
	}

	return client.Build(h, opts...)
}

var defaultClient = sync.OnceValues(func() (*client.Client, error) {
	return NewHTTPClient(nil)
})

// Fetch requests rawURL with a shared client built from the defaults of
// [NewHTTPClient].
func Fetch(ctx context.Context, rawURL string, init *fetch.RequestInit) (*fetch.Response, error) {
	c, err := defaultClient()
	if err != nil {
		return nil, err
	}

	return c.Fetch(ctx, rawURL, init)
}
