package redislist

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/trickstertwo/xstatus"
)

var _ xstatus.Store = (*Store)(nil)

// Store hands out list-backed queues sharing one pooled go-redis client.
type Store struct {
	client     *redis.Client
	ownsClient bool
	closed     atomic.Bool
}

// NewStore validates cfg, dials Redis and checks it answers PING.
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := redis.NewClient(cfg.options())
	if err := ping(client); err != nil {
		_ = client.Close()
		return nil, &xstatus.StoreError{Op: "ping", Queue: cfg.Addr, Err: err}
	}
	return &Store{client: client, ownsClient: true}, nil
}

// NewStoreWithClient wraps an existing client. Close leaves the client open.
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Client exposes the underlying client for callers that share it.
func (s *Store) Client() *redis.Client { return s.client }

// Queue binds the physical list key name. No I/O happens here.
func (s *Store) Queue(name string) xstatus.Queue {
	return &list{client: s.client, key: name}
}

// Ping checks the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return &xstatus.StoreError{Op: "ping", Err: err}
	}
	return nil
}

// Close releases the client if this store created it.
func (s *Store) Close(_ context.Context) error {
	if s.closed.Swap(true) || !s.ownsClient {
		return nil
	}
	return s.client.Close()
}

// list is one Redis list used as a FIFO: LPUSH at the head, RPOP at the tail.
type list struct {
	client *redis.Client
	key    string
}

func (l *list) Name() string { return l.key }

func (l *list) Push(ctx context.Context, item []byte) error {
	return wrap("lpush", l.key, l.client.LPush(ctx, l.key, item).Err())
}

func (l *list) Pop(ctx context.Context) ([]byte, bool, error) {
	b, err := l.client.RPop(ctx, l.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrap("rpop", l.key, err)
	}
	return b, true, nil
}

func (l *list) Peek(ctx context.Context) ([]byte, bool, error) {
	b, err := l.client.LIndex(ctx, l.key, -1).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrap("lindex", l.key, err)
	}
	return b, true, nil
}

func (l *list) Size(ctx context.Context) (int64, error) {
	n, err := l.client.LLen(ctx, l.key).Result()
	if err != nil {
		return 0, wrap("llen", l.key, err)
	}
	return n, nil
}

func (l *list) Clear(ctx context.Context) error {
	return wrap("del", l.key, l.client.Del(ctx, l.key).Err())
}

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &xstatus.StoreError{Op: op, Queue: key, Err: err}
}

func ping(c *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	res, err := c.Ping(ctx).Result()
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("redis ping timeout: %w", err)
		}
		return err
	}
	if strings.ToUpper(res) != "PONG" {
		return fmt.Errorf("unexpected redis ping result: %s", res)
	}
	return nil
}
