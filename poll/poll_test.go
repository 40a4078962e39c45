package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xstatus"
	"github.com/trickstertwo/xstatus/adapter/memory"
)

var errDown = errors.New("connection refused")

// countingStore wraps the memory store, counting queue calls and optionally
// failing all of them.
type countingStore struct {
	*memory.Store
	calls atomic.Int32
	down  atomic.Bool
}

func (s *countingStore) Queue(name string) xstatus.Queue {
	return &countingQueue{Queue: s.Store.Queue(name), s: s}
}

type countingQueue struct {
	xstatus.Queue
	s *countingStore
}

func (q *countingQueue) fail(op string) error {
	q.s.calls.Add(1)
	if q.s.down.Load() {
		return &xstatus.StoreError{Op: op, Queue: q.Name(), Err: errDown}
	}
	return nil
}

func (q *countingQueue) Push(ctx context.Context, item []byte) error {
	if err := q.fail("push"); err != nil {
		return err
	}
	return q.Queue.Push(ctx, item)
}

func (q *countingQueue) Pop(ctx context.Context) ([]byte, bool, error) {
	if err := q.fail("pop"); err != nil {
		return nil, false, err
	}
	return q.Queue.Pop(ctx)
}

func (q *countingQueue) Size(ctx context.Context) (int64, error) {
	if err := q.fail("size"); err != nil {
		return 0, err
	}
	return q.Queue.Size(ctx)
}

func newTestHub(t *testing.T) (*xstatus.Hub, *countingStore) {
	t.Helper()
	st := &countingStore{Store: memory.NewStore(memory.Config{})}
	hub, err := xstatus.NewHubBuilder().WithStoreInstance(st).WithPrefix("test").Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = hub.Close(context.Background()) })
	return hub, st
}
