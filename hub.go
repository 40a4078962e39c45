package xstatus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

var _ API = (*Hub)(nil)
var _ HealthChecker = (*Hub)(nil)

// Hub is the central Facade binding logical queue names to handles on a
// shared Store. It holds no queue state of its own; everything mutable lives
// in the store.
type Hub struct {
	store        Store
	ns           Namespace
	codec        Codec
	clock        xclock.Clock
	logger       *xlog.Logger
	observerPool *ObserverPool
	observersMu  sync.RWMutex
	observers    []Observer
	push         PushFunc
	metrics      *hubMetrics
	closed       atomic.Bool
	closeOnce    sync.Once
}

// hubMetrics uses lock-free atomics.
type hubMetrics struct {
	pushCount    atomic.Uint64
	drainCount   atomic.Uint64
	drainedCount atomic.Uint64
	emptyCount   atomic.Uint64
	errorCount   atomic.Uint64
	processingNs atomic.Int64
}

// Codec returns the configured codec (Strategy).
func (h *Hub) Codec() Codec { return h.codec }

// Namespace returns the key namespace queue names are resolved in.
func (h *Hub) Namespace() Namespace { return h.ns }

// Logger returns the hub logger.
func (h *Hub) Logger() *xlog.Logger { return h.logger }

// Clock returns the hub clock.
func (h *Hub) Clock() xclock.Clock { return h.clock }

// Queue returns a handle for a logical queue name. Handles are cheap and not
// retained by the hub; every handle shares the store's pooled client and the
// push chain built once in Build.
func (h *Hub) Queue(name string) (*Handle, error) {
	if h.closed.Load() {
		return nil, ErrHubClosed
	}
	physical, err := h.ns.Resolve(name)
	if err != nil {
		return nil, err
	}
	return &Handle{
		hub:     h,
		q:       h.store.Queue(physical),
		logical: name,
		push:    h.push,
	}, nil
}

// Push encodes payload and appends it to the named queue.
func (h *Hub) Push(ctx context.Context, queue string, payload any) error {
	hd, err := h.Queue(queue)
	if err != nil {
		return err
	}
	return hd.Push(ctx, payload)
}

// PushStatus appends a {status, msg} record to the named queue.
func (h *Hub) PushStatus(ctx context.Context, queue string, level Level, msg string) error {
	hd, err := h.Queue(queue)
	if err != nil {
		return err
	}
	return hd.PushStatus(ctx, level, msg)
}

// Drain pops up to count messages from the named queue, oldest first.
func (h *Hub) Drain(ctx context.Context, queue string, count int) ([]Message, error) {
	hd, err := h.Queue(queue)
	if err != nil {
		return nil, err
	}
	return hd.Drain(ctx, count)
}

// GetMetrics returns current hub metrics.
func (h *Hub) GetMetrics() Metrics {
	var dropped uint64
	if h.observerPool != nil {
		dropped = h.observerPool.Stats().Dropped
	}
	return Metrics{
		Pushed:              h.metrics.pushCount.Load(),
		Drains:              h.metrics.drainCount.Load(),
		Drained:             h.metrics.drainedCount.Load(),
		EmptyChecks:         h.metrics.emptyCount.Load(),
		Errors:              h.metrics.errorCount.Load(),
		EventsDropped:       dropped,
		AvgProcessingTimeMs: float64(h.metrics.processingNs.Load()) / 1e6,
	}
}

// Health pings the store and reports hub health for probes.
func (h *Hub) Health(ctx context.Context) HealthStatus {
	if h.closed.Load() {
		return HealthStatus{
			Status:    "unhealthy",
			Timestamp: h.clock.Now(),
			Message:   "hub is closed",
		}
	}

	metrics := h.GetMetrics()
	if err := h.store.Ping(ctx); err != nil {
		return HealthStatus{
			Status:    "unhealthy",
			Metrics:   metrics,
			Timestamp: h.clock.Now(),
			Message:   err.Error(),
		}
	}

	status := "healthy"
	ops := metrics.Pushed + metrics.Drains
	if metrics.Errors > 0 && ops > 0 {
		if float64(metrics.Errors)/float64(ops) > 0.05 {
			status = "degraded"
		}
	}
	return HealthStatus{
		Status:    status,
		Metrics:   metrics,
		Timestamp: h.clock.Now(),
	}
}

// Close drains the observer pool and closes the store. Idempotent.
func (h *Hub) Close(ctx context.Context) error {
	var closeErr error
	h.closeOnce.Do(func() {
		h.closed.Store(true)

		if h.observerPool != nil {
			if err := h.observerPool.Close(5 * time.Second); err != nil {
				h.logger.Warn().Err(err).Msg("xstatus: observer pool shutdown timeout")
				closeErr = err
			}
		}
		if err := h.store.Close(ctx); err != nil {
			h.logger.Error().Err(err).Msg("xstatus: store close failed")
			closeErr = fmt.Errorf("close store: %w", err)
		}
	})
	return closeErr
}

// AddObserver registers an observer (thread-safe).
func (h *Hub) AddObserver(obs Observer) {
	if obs == nil {
		return
	}
	h.observersMu.Lock()
	h.observers = append(h.observers, obs)
	h.observersMu.Unlock()
}

// RemoveObserver removes an observer.
func (h *Hub) RemoveObserver(obs Observer) {
	if obs == nil {
		return
	}
	h.observersMu.Lock()
	defer h.observersMu.Unlock()
	for i, o := range h.observers {
		if o == obs {
			h.observers = append(h.observers[:i:i], h.observers[i+1:]...)
			break
		}
	}
}

func (h *Hub) notifyAsync(e Event) {
	if h.observerPool == nil || h.closed.Load() {
		return
	}
	h.observersMu.RLock()
	if len(h.observers) == 0 {
		h.observersMu.RUnlock()
		return
	}
	observers := make([]Observer, len(h.observers))
	copy(observers, h.observers)
	h.observersMu.RUnlock()

	h.observerPool.Notify(e, observers)
}

// recordProcessingTime keeps an exponential moving average of store latency.
func (h *Hub) recordProcessingTime(d time.Duration) {
	const alpha = 0.2
	ns := d.Nanoseconds()
	current := h.metrics.processingNs.Load()
	if current == 0 {
		h.metrics.processingNs.Store(ns)
		return
	}
	h.metrics.processingNs.Store(int64(float64(ns)*alpha + float64(current)*(1-alpha)))
}

func (h *Hub) recordError(queue string, err error) {
	if err == nil {
		return
	}
	h.metrics.errorCount.Add(1)
	h.notifyAsync(Event{Type: Error, Queue: queue, Err: err})
}
