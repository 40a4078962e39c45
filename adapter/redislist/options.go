package redislist

import (
	"time"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
	"github.com/trickstertwo/xstatus"
)

// Option configures the xstatus.Hub construction when calling Use.
type Option func(*xstatus.HubBuilder)

// WithLogger injects a custom xlog logger.
func WithLogger(l *xlog.Logger) Option {
	return func(b *xstatus.HubBuilder) { b.WithLogger(l) }
}

// WithClock injects a custom xclock clock.
func WithClock(c xclock.Clock) Option {
	return func(b *xstatus.HubBuilder) { b.WithClock(c) }
}

// WithCodec selects a codec by name (default: json).
func WithCodec(name string) Option {
	return func(b *xstatus.HubBuilder) { b.WithCodec(name) }
}

// WithMiddleware adds producer-side push middlewares.
func WithMiddleware(mw ...xstatus.Middleware) Option {
	return func(b *xstatus.HubBuilder) { b.WithMiddleware(mw...) }
}

// WithObserver attaches observers for lifecycle events.
func WithObserver(obs ...xstatus.Observer) Option {
	return func(b *xstatus.HubBuilder) { b.WithObserver(obs...) }
}

// WithPushTimeout bounds each push.
func WithPushTimeout(d time.Duration) Option {
	return func(b *xstatus.HubBuilder) { b.WithPushTimeout(d) }
}
