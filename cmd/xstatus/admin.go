package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/trickstertwo/xstatus"
	"github.com/trickstertwo/xstatus/adapter/redislist"
)

// withHandle connects to Redis, resolves the queue argument and runs fn.
func withHandle(c *cli.Context, fn func(ctx context.Context, h *xstatus.Handle) error) error {
	queue, err := queueArg(c)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	hub, err := redislist.Builder(cfg.Redis,
		redislist.WithLogger(newLogger(cfg.Verbose)),
		redislist.WithPushTimeout(cfg.PushTimeout),
	).Build()
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = hub.Close(context.Background()) }()

	h, err := hub.Queue(queue)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, h)
}

func runPush(c *cli.Context) error {
	return withHandle(c, func(ctx context.Context, h *xstatus.Handle) error {
		return h.PushStatus(ctx, xstatus.Level(c.String("status")), c.String("msg"))
	})
}

func runDrain(c *cli.Context) error {
	count, err := xstatus.ParseCount(c.String("count"))
	if err != nil {
		return err
	}
	return withHandle(c, func(ctx context.Context, h *xstatus.Handle) error {
		items, err := h.Drain(ctx, count)
		// Drained items are gone from Redis; print them even on a partial failure.
		if werr := writeRecords(c.App.Writer, h.Records(items)); werr != nil && err == nil {
			err = werr
		}
		return err
	})
}

func runPeek(c *cli.Context) error {
	return withHandle(c, func(ctx context.Context, h *xstatus.Handle) error {
		msg, ok, err := h.Peek(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return writeRecords(c.App.Writer, nil)
		}
		return writeRecords(c.App.Writer, h.Records([]xstatus.Message{msg}))
	})
}

func runSize(c *cli.Context) error {
	return withHandle(c, func(ctx context.Context, h *xstatus.Handle) error {
		n, err := h.Size(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, n)
		return err
	})
}

func runClear(c *cli.Context) error {
	return withHandle(c, func(ctx context.Context, h *xstatus.Handle) error {
		return h.Clear(ctx)
	})
}

// writeRecords prints one JSON record per line, oldest first.
func writeRecords(w io.Writer, records []xstatus.Record) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
