// Package throttle provides a [fetch.Transport] that rate-limits
// calls to another transport using a token-bucket algorithm from
// [golang.org/x/time/rate].
//
// # Usage
//
// Wrap an existing transport with [NewTransport]:
//
//	t, err := throttle.NewTransport(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		hostTransport,
//	)
//
// When the rate limit is exceeded, calls block until a token becomes
// available or the call's context is cancelled.
package throttle
