package memory

import (
	"fmt"
	"time"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
	"github.com/trickstertwo/xstatus"
)

// Use builds a Hub on the in-memory store and sets it as the default.
//
// Example:
//
//	hub := memory.Use(memory.Config{InitialCapacity: 64}, "dev",
//	    memory.WithLogger(logger),
//	)
//	_ = xstatus.PushStatus(ctx, "report_74", xstatus.LevelInfo, "started")
func Use(cfg Config, prefix string, opts ...Option) *xstatus.Hub {
	bb := xstatus.NewHubBuilder().
		WithStore(StoreName, cfg.toMap()).
		WithPrefix(prefix)

	for _, o := range opts {
		if o != nil {
			o(bb)
		}
	}

	hub, err := bb.Build()
	if err != nil {
		panic(fmt.Errorf("memory.Use: %w", err))
	}
	xstatus.SetDefault(hub)
	return hub
}

// Option configures the xstatus.Hub when calling Use.
type Option func(*xstatus.HubBuilder)

// WithLogger injects a custom xlog logger.
func WithLogger(l *xlog.Logger) Option {
	return func(b *xstatus.HubBuilder) { b.WithLogger(l) }
}

// WithClock injects a custom xclock clock.
func WithClock(c xclock.Clock) Option {
	return func(b *xstatus.HubBuilder) { b.WithClock(c) }
}

// WithCodec selects a codec by name (default: "json").
func WithCodec(name string) Option {
	return func(b *xstatus.HubBuilder) { b.WithCodec(name) }
}

// WithMiddleware adds push middlewares (retry, timeout, etc).
func WithMiddleware(mw ...xstatus.Middleware) Option {
	return func(b *xstatus.HubBuilder) { b.WithMiddleware(mw...) }
}

// WithPushTimeout bounds each push (default: 5s).
func WithPushTimeout(d time.Duration) Option {
	return func(b *xstatus.HubBuilder) { b.WithPushTimeout(d) }
}

// WithObserver attaches observers for lifecycle events.
func WithObserver(obs ...xstatus.Observer) Option {
	return func(b *xstatus.HubBuilder) { b.WithObserver(obs...) }
}

// WithObserverPool configures async observer pool for non-blocking notifications.
func WithObserverPool(workers, bufferSize int) Option {
	return func(b *xstatus.HubBuilder) { b.WithObserverPool(workers, bufferSize) }
}
