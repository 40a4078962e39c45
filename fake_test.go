package xstatus

import (
	"context"
	"errors"
	"sync"
)

var errFakeDown = errors.New("fake: connection refused")

// fakeQueue is an in-package Queue that counts store calls and can be told to
// fail from a given pop onwards.
type fakeQueue struct {
	name string

	mu        sync.Mutex
	items     [][]byte
	pops      int
	sizes     int
	failPopAt int // 1-based; 0 never fails
	failAll   bool
}

func newFakeQueue(name string, items ...string) *fakeQueue {
	q := &fakeQueue{name: name}
	for _, it := range items {
		q.items = append(q.items, []byte(it))
	}
	return q
}

func (q *fakeQueue) Name() string { return q.name }

func (q *fakeQueue) Push(_ context.Context, item []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failAll {
		return &StoreError{Op: "push", Queue: q.name, Err: errFakeDown}
	}
	q.items = append(q.items, item)
	return nil
}

func (q *fakeQueue) Pop(_ context.Context) ([]byte, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pops++
	if q.failAll || (q.failPopAt > 0 && q.pops >= q.failPopAt) {
		return nil, false, &StoreError{Op: "pop", Queue: q.name, Err: errFakeDown}
	}
	if len(q.items) == 0 {
		return nil, false, nil
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true, nil
}

func (q *fakeQueue) Peek(_ context.Context) ([]byte, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false, nil
	}
	return q.items[0], true, nil
}

func (q *fakeQueue) Size(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sizes++
	if q.failAll {
		return 0, &StoreError{Op: "size", Queue: q.name, Err: errFakeDown}
	}
	return int64(len(q.items)), nil
}

func (q *fakeQueue) Clear(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	return nil
}

func (q *fakeQueue) popCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pops
}

// fakeStore hands out fakeQueues by name.
type fakeStore struct {
	mu      sync.Mutex
	queues  map[string]*fakeQueue
	pingErr error
	closed  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{queues: map[string]*fakeQueue{}}
}

func (s *fakeStore) Queue(name string) Queue {
	return s.queue(name)
}

func (s *fakeStore) queue(name string) *fakeQueue {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[name]
	if !ok {
		q = newFakeQueue(name)
		s.queues[name] = q
	}
	return q
}

func (s *fakeStore) Ping(_ context.Context) error { return s.pingErr }

func (s *fakeStore) Close(_ context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
