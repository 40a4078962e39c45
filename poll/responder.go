package poll

import (
	"context"
	"fmt"

	"github.com/trickstertwo/xstatus"
)

// StatusStopPolling is the out-of-band status returned when a queue is observed
// empty. htmx stops a polling trigger on 286; it sits outside every standard
// class so it cannot be mistaken for an ordinary empty success.
const StatusStopPolling = 286

// HeaderPoll carries the stop signal for clients that cannot see the status
// code (fetch wrappers that normalise it away).
const (
	HeaderPoll = "X-Poll"
	PollStop   = "stop"
)

// Response is the outcome of one poll.
type Response struct {
	// Queue is the logical queue name polled.
	Queue string
	// Requested is the validated count.
	Requested int
	// Stop is set when the queue was observed empty; Items is then nil.
	Stop bool
	// Items are the drained messages, oldest first. May be shorter than Requested.
	Items []xstatus.Message
}

// Responder turns a poll into either a drain or a stop signal. It keeps no
// state between polls.
type Responder struct {
	hub *xstatus.Hub
}

func NewResponder(hub *xstatus.Hub) *Responder {
	return &Responder{hub: hub}
}

// Poll validates the inputs, checks the queue size and drains it when
// non-empty. Validation happens before any store call. A store failure is
// returned as an error, never reported as an empty queue.
func (r *Responder) Poll(ctx context.Context, queue, rawCount string) (Response, error) {
	if queue == "" {
		return Response{}, fmt.Errorf("%w: queue name must not be empty", xstatus.ErrValidation)
	}
	count, err := xstatus.ParseCount(rawCount)
	if err != nil {
		return Response{}, err
	}

	h, err := r.hub.Queue(queue)
	if err != nil {
		return Response{}, err
	}

	resp := Response{Queue: queue, Requested: count}
	size, err := h.Size(ctx)
	if err != nil {
		return Response{}, err
	}
	if size == 0 {
		resp.Stop = true
		return resp, nil
	}

	// Another consumer may win the race between Size and Drain; a short or
	// empty result is still a content response.
	items, err := h.Drain(ctx, count)
	if err != nil {
		return Response{}, err
	}
	resp.Items = items
	return resp, nil
}

// Records decodes the response items with the hub codec.
func (r *Responder) Records(resp Response) []xstatus.Record {
	return xstatus.DecodeRecords(r.hub.Codec(), resp.Items)
}
