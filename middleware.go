package xstatus

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// PushFunc appends an encoded item to the named physical queue.
type PushFunc func(ctx context.Context, queue string, item []byte) error

// Middleware composes producer-side concerns around a PushFunc. Middlewares
// apply to pushes only; the drain path never retries.
type Middleware func(next PushFunc) PushFunc

// RetryConfig controls retry behavior for RetryMiddleware.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first one.
	MaxAttempts int
	// Backoff computes the base wait before the next attempt.
	Backoff func(attempt int) time.Duration
	// RetryIf returns true if the error should be retried. Defaults to
	// retrying connection errors only.
	RetryIf func(err error) bool
	// Jitter adds up to [0, Jitter] random delay to the base backoff.
	Jitter time.Duration
}

// RetryMiddleware provides bounded, selective retries around a push. It is an
// opt-in caller policy: a status producer that cannot afford to lose a message
// to a transient outage can install it.
func RetryMiddleware(cfg RetryConfig) Middleware {
	attempts := max(cfg.MaxAttempts, 1)
	shouldRetry := cfg.RetryIf
	if shouldRetry == nil {
		shouldRetry = func(err error) bool { return errors.Is(err, ErrConnection) }
	}
	return func(next PushFunc) PushFunc {
		return func(ctx context.Context, queue string, item []byte) error {
			var lastErr error
			for i := 1; i <= attempts; i++ {
				lastErr = next(ctx, queue, item)
				if lastErr == nil {
					return nil
				}
				if ctx.Err() != nil || i == attempts || !shouldRetry(lastErr) {
					return lastErr
				}
				if cfg.Backoff == nil {
					continue
				}
				wait := cfg.Backoff(i)
				if cfg.Jitter > 0 {
					wait += time.Duration(rand.Int63n(int64(cfg.Jitter)))
				}
				select {
				case <-ctx.Done():
					return lastErr
				case <-time.After(wait):
				}
			}
			return lastErr
		}
	}
}

// TimeoutMiddleware bounds each push with its own deadline.
func TimeoutMiddleware(d time.Duration) Middleware {
	if d <= 0 {
		return func(next PushFunc) PushFunc { return next }
	}
	return func(next PushFunc) PushFunc {
		return func(ctx context.Context, queue string, item []byte) error {
			tctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(tctx, queue, item)
		}
	}
}

// RecoveryMiddleware converts a panic in the push chain into an error.
func RecoveryMiddleware() Middleware {
	return func(next PushFunc) PushFunc {
		return func(ctx context.Context, queue string, item []byte) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic recovered: %v", r)
				}
			}()
			return next(ctx, queue, item)
		}
	}
}

// Chain composes middlewares around p; the first middleware is outermost.
func Chain(p PushFunc, mws ...Middleware) PushFunc {
	wrapped := p
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		wrapped = mws[i](wrapped)
	}
	return wrapped
}
