package xstatus

import (
	"context"
	"errors"
	"sync"
)

// Queue is a named FIFO in a shared store. Push appends at the newest end and
// Pop removes from the oldest end.
type Queue interface {
	// Name is the physical key of the queue.
	Name() string
	// Push appends item at the newest end.
	Push(ctx context.Context, item []byte) error
	// Pop removes and returns the oldest item. ok is false when the queue is
	// empty; that is not an error.
	Pop(ctx context.Context) (item []byte, ok bool, err error)
	// Peek returns the oldest item without removing it.
	Peek(ctx context.Context) (item []byte, ok bool, err error)
	// Size is advisory: other producers and consumers may change it at any time.
	Size(ctx context.Context) (int64, error)
	// Clear atomically empties the queue.
	Clear(ctx context.Context) error
}

// Store is the Strategy interface for FIFO backends. Implementations share one
// pooled client across all the queues they hand out.
type Store interface {
	// Queue binds a physical queue name. It performs no I/O.
	Queue(name string) Queue
	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
	// Close releases resources.
	Close(ctx context.Context) error
}

// StoreFactory constructs stores from a config blob.
type StoreFactory func(cfg map[string]any) (Store, error)

var (
	storeRegistryMu sync.RWMutex
	storeRegistry   = map[string]StoreFactory{}
)

// RegisterStore registers a backend adapter.
func RegisterStore(name string, factory StoreFactory) error {
	if name == "" {
		return errors.New("store name must not be empty")
	}
	if factory == nil {
		return errors.New("store factory must not be nil")
	}
	storeRegistryMu.Lock()
	storeRegistry[name] = factory
	storeRegistryMu.Unlock()
	return nil
}

// NewStore constructs a store by name with config.
func NewStore(name string, cfg map[string]any) (Store, error) {
	storeRegistryMu.RLock()
	f, ok := storeRegistry[name]
	storeRegistryMu.RUnlock()
	if !ok {
		return nil, ErrUnknownStore{name: name}
	}
	return f(cfg)
}
