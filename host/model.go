package host

import "errors"

// DefaultMaxBodySize is the response body cap used when [WithMaxBodySize]
// is not given.
const DefaultMaxBodySize int64 = 32 << 20

const maxRedirects = 10

var (
	// ErrBodyTooLarge is returned when a response body exceeds the
	// configured maximum size.
	ErrBodyTooLarge = errors.New("response body too large")
	// ErrAborted is returned when the request's signal fires before the
	// response is received.
	ErrAborted = errors.New("request aborted")
	// ErrRedirectNotAllowed is wrapped when a request with redirect mode
	// "error" receives a redirect.
	ErrRedirectNotAllowed = errors.New("redirect not allowed")
	// ErrIntegrity is wrapped when a response body does not match the
	// request's integrity metadata.
	ErrIntegrity = errors.New("integrity check failed")
	// ErrUnsupportedRedirect is returned for an unknown redirect mode.
	ErrUnsupportedRedirect = errors.New("unsupported redirect mode")
)
