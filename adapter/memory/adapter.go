package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/trickstertwo/xstatus"
)

const StoreName = "memory"

func init() {
	if err := xstatus.RegisterStore(StoreName, func(cfg map[string]any) (xstatus.Store, error) {
		return NewStore(ConfigFromMap(cfg)), nil
	}); err != nil {
		panic(fmt.Errorf("xstatus/memory: failed to register store: %w", err))
	}
}

// ErrClosed is returned by queue operations after Close.
var ErrClosed = errors.New("memory store is closed")

// Config controls memory store behavior.
type Config struct {
	// InitialCapacity pre-sizes each queue's backing slice (default: 16).
	InitialCapacity int
}

func ConfigFromMap(cfg map[string]any) Config {
	getInt := func(k string, d int) int {
		switch v := cfg[k].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		default:
			return d
		}
	}
	return Config{
		InitialCapacity: max(1, getInt("initial_capacity", 16)),
	}
}

func (c Config) toMap() map[string]any {
	return map[string]any{
		"initial_capacity": c.InitialCapacity,
	}
}

// Store implements xstatus.Store with in-process slices. Queues with the same
// name share state for the lifetime of the Store. Meant for local development
// and tests; nothing survives a restart.
type Store struct {
	cfg Config

	mu     sync.Mutex
	queues map[string]*queue

	closed atomic.Bool
}

var _ xstatus.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore(cfg Config) *Store {
	if cfg.InitialCapacity < 1 {
		cfg.InitialCapacity = 16
	}
	return &Store{
		cfg:    cfg,
		queues: make(map[string]*queue),
	}
}

// Queue returns the queue for name, creating it on first use.
func (s *Store) Queue(name string) xstatus.Queue {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[name]
	if !ok {
		q = &queue{store: s, name: name, items: make([][]byte, 0, s.cfg.InitialCapacity)}
		s.queues[name] = q
	}
	return q
}

func (s *Store) Ping(_ context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.closed.Store(true)
	return nil
}

// queue keeps items oldest-first: Push appends, Pop takes index 0.
type queue struct {
	store *Store
	name  string

	mu    sync.Mutex
	items [][]byte
}

func (q *queue) Name() string { return q.name }

func (q *queue) check(ctx context.Context, op string) error {
	if q.store.closed.Load() {
		return &xstatus.StoreError{Op: op, Queue: q.name, Err: ErrClosed}
	}
	if err := ctx.Err(); err != nil {
		return &xstatus.StoreError{Op: op, Queue: q.name, Err: err}
	}
	return nil
}

func (q *queue) Push(ctx context.Context, item []byte) error {
	if err := q.check(ctx, "push"); err != nil {
		return err
	}
	cp := append([]byte(nil), item...)
	q.mu.Lock()
	q.items = append(q.items, cp)
	q.mu.Unlock()
	return nil
}

func (q *queue) Pop(ctx context.Context) ([]byte, bool, error) {
	if err := q.check(ctx, "pop"); err != nil {
		return nil, false, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false, nil
	}
	head := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return head, true, nil
}

func (q *queue) Peek(ctx context.Context) ([]byte, bool, error) {
	if err := q.check(ctx, "peek"); err != nil {
		return nil, false, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false, nil
	}
	return append([]byte(nil), q.items[0]...), true, nil
}

func (q *queue) Size(ctx context.Context) (int64, error) {
	if err := q.check(ctx, "size"); err != nil {
		return 0, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}

func (q *queue) Clear(ctx context.Context) error {
	if err := q.check(ctx, "clear"); err != nil {
		return err
	}
	q.mu.Lock()
	q.items = make([][]byte, 0, q.store.cfg.InitialCapacity)
	q.mu.Unlock()
	return nil
}
