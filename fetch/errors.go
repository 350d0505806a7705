package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeError classifies misuse of the API: invalid construction
	// arguments or operations on a consumed body.
	ErrTypeError = errors.New("type error")
	// ErrRangeError classifies numeric arguments outside their allowed set.
	ErrRangeError = errors.New("range error")
	// ErrNetwork marks a transport failure as a network-level condition.
	// Transports should wrap it so the client can downgrade the failure
	// to an [ErrorResponse].
	ErrNetwork = errors.New("network error")
)

var (
	// ErrBodyNotAllowed is returned when a GET or HEAD request carries a body.
	ErrBodyNotAllowed = fmt.Errorf("%w: request with GET/HEAD method cannot have body", ErrTypeError)
	// ErrInvalidHeaderPair is returned when a header pair does not hold exactly two items.
	ErrInvalidHeaderPair = fmt.Errorf("%w: invalid headers array", ErrTypeError)
	// ErrBodyUsed is returned by every read on a consumed response body.
	ErrBodyUsed = fmt.Errorf("%w: body already consumed", ErrTypeError)
	// ErrCloneUsed is returned when cloning a response whose body was consumed.
	ErrCloneUsed = fmt.Errorf("%w: cannot clone a response with used body", ErrTypeError)
	// ErrBodyEncoding is returned when a JSON body value cannot be encoded.
	ErrBodyEncoding = fmt.Errorf("%w: body encoding failed", ErrTypeError)
	// ErrInvalidRedirectStatus is returned by [Redirect] for non-redirect codes.
	ErrInvalidRedirectStatus = fmt.Errorf("%w: invalid redirect status", ErrRangeError)
)
