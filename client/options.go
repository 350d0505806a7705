package client

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/fetchio/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	logger         *slog.Logger
	tracer         trace.Tracer
	clock          clock.Clock
	throttle       *throttle.Config
	userAgent      string
	defaultHeaders map[string]string
	isNetworkErr   func(error) bool
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used to open a span per fetch.
// The default is a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithClock replaces the clock used to time fetches.
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		if c == nil {
			return errors.New("clock must not be nil")
		}
		o.clock = c
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting of transport calls with
// the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		o.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithUserAgent sends a User-Agent header on every fetch that does not
// set one itself.
func WithUserAgent(ua string) Option {
	return func(o *options) error {
		o.userAgent = ua
		return nil
	}
}

// WithDefaultHeaders adds headers to every fetch. Headers set by the
// caller win over defaults of the same name.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(o *options) error {
		if o.defaultHeaders == nil {
			o.defaultHeaders = make(map[string]string, len(headers))
		}
		maps.Copy(o.defaultHeaders, headers)
		return nil
	}
}

// WithNetworkErrorFunc replaces [IsNetworkError] as the classifier that
// decides which transport failures become an error response.
func WithNetworkErrorFunc(fn func(error) bool) Option {
	return func(o *options) error {
		if fn == nil {
			return errors.New("network error func must not be nil")
		}
		o.isNetworkErr = fn
		return nil
	}
}

// WithConfig validates cfg and applies it.
func WithConfig(cfg Config) Option {
	return func(o *options) error {
		if err := Validate(cfg); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if cfg.UserAgent != "" {
			o.userAgent = cfg.UserAgent
		}
		if len(cfg.DefaultHeaders) > 0 {
			if o.defaultHeaders == nil {
				o.defaultHeaders = make(map[string]string, len(cfg.DefaultHeaders))
			}
			maps.Copy(o.defaultHeaders, cfg.DefaultHeaders)
		}
		if cfg.Throttle != nil {
			t := *cfg.Throttle
			o.throttle = &t
		}

		return nil
	}
}
