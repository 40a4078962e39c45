package xstatus

import (
	"context"
	"fmt"
)

// Handle is a QueueHandle: one logical status queue bound to the hub's store,
// codec and observers. Handles are safe for concurrent use.
type Handle struct {
	hub     *Hub
	q       Queue
	logical string
	push    PushFunc
}

// Name returns the physical queue name.
func (h *Handle) Name() string { return h.q.Name() }

// Logical returns the caller-supplied queue name.
func (h *Handle) Logical() string { return h.logical }

// Push encodes payload with the hub codec and appends it at the newest end.
func (h *Handle) Push(ctx context.Context, payload any) error {
	if h.hub.closed.Load() {
		return ErrHubClosed
	}
	if payload == nil {
		return fmt.Errorf("%w: payload must not be nil", ErrValidation)
	}
	data, err := h.hub.codec.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", ErrValidation, err)
	}

	name := h.q.Name()
	h.hub.notifyAsync(Event{Type: PushStart, Queue: name})
	start := h.hub.clock.Now()

	err = h.push(InjectAll(ctx, h.hub.logger, h.hub.clock), name, data)

	duration := h.hub.clock.Since(start)
	h.hub.recordProcessingTime(duration)
	h.hub.notifyAsync(Event{Type: PushDone, Queue: name, Duration: duration, Err: err})
	if err != nil {
		h.hub.recordError(name, err)
		return err
	}
	h.hub.metrics.pushCount.Add(1)
	return nil
}

// PushStatus appends a {status, msg} display record.
func (h *Handle) PushStatus(ctx context.Context, level Level, msg string) error {
	if !level.Valid() {
		return fmt.Errorf("%w: unknown status level %q", ErrValidation, level)
	}
	return h.Push(ctx, Status{Status: level, Msg: msg})
}

// Pop removes and returns the oldest message. ok is false when the queue is empty.
func (h *Handle) Pop(ctx context.Context) (Message, bool, error) {
	b, ok, err := h.q.Pop(ctx)
	if err != nil {
		h.hub.recordError(h.q.Name(), err)
		return Message{}, false, err
	}
	if !ok {
		return Message{}, false, nil
	}
	return Message{Queue: h.q.Name(), Payload: b}, true, nil
}

// Peek returns the oldest message without removing it.
func (h *Handle) Peek(ctx context.Context) (Message, bool, error) {
	b, ok, err := h.q.Peek(ctx)
	if err != nil {
		h.hub.recordError(h.q.Name(), err)
		return Message{}, false, err
	}
	if !ok {
		return Message{}, false, nil
	}
	return Message{Queue: h.q.Name(), Payload: b}, true, nil
}

// Size returns the advisory element count.
func (h *Handle) Size(ctx context.Context) (int64, error) {
	name := h.q.Name()
	start := h.hub.clock.Now()
	n, err := h.q.Size(ctx)
	if err != nil {
		h.hub.recordError(name, err)
		return 0, err
	}
	if n == 0 {
		h.hub.metrics.emptyCount.Add(1)
	}
	h.hub.notifyAsync(Event{Type: SizeChecked, Queue: name, Size: n, Duration: h.hub.clock.Since(start)})
	return n, nil
}

// Clear atomically empties the queue.
func (h *Handle) Clear(ctx context.Context) error {
	name := h.q.Name()
	if err := h.q.Clear(ctx); err != nil {
		h.hub.recordError(name, err)
		return err
	}
	h.hub.notifyAsync(Event{Type: Cleared, Queue: name})
	return nil
}

// Drain pops up to count messages, oldest first. See Drain.
func (h *Handle) Drain(ctx context.Context, count int) ([]Message, error) {
	name := h.q.Name()
	h.hub.notifyAsync(Event{Type: DrainStart, Queue: name, Requested: count})
	start := h.hub.clock.Now()

	items, err := Drain(ctx, h.q, count)

	duration := h.hub.clock.Since(start)
	h.hub.recordProcessingTime(duration)
	h.hub.metrics.drainCount.Add(1)
	h.hub.metrics.drainedCount.Add(uint64(len(items)))
	h.hub.notifyAsync(Event{
		Type:      DrainDone,
		Queue:     name,
		Requested: count,
		Items:     len(items),
		Duration:  duration,
		Err:       err,
	})
	if err != nil {
		h.hub.recordError(name, err)
	}
	return items, err
}

// Records decodes msgs with the hub codec for rendering.
func (h *Handle) Records(msgs []Message) []Record {
	return DecodeRecords(h.hub.codec, msgs)
}
