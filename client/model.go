package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adamwoolhether/fetchio/fetch"
)

var (
	// ErrNilTransport is returned by [Build] when no transport is given.
	ErrNilTransport = errors.New("transport must not be nil")
	// ErrNilResponse is wrapped by [TransportError] when a transport
	// returns neither a response nor an error.
	ErrNilResponse = errors.New("transport returned nil response")
)

// TransportError is returned when the transport fails with an error that
// is not classified as a network failure. It unwraps to the transport's error.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNetworkError is the default failure classifier. It matches errors
// wrapping [fetch.ErrNetwork] and any error whose message mentions "network".
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, fetch.ErrNetwork) || strings.Contains(err.Error(), "network")
}
