package xstatus

import (
	"context"
	"fmt"
	"strconv"
)

// DefaultCount is the number of messages drained per poll when the caller
// does not ask for a specific amount.
const DefaultCount = 5

// Drain destructively pops up to count messages from q, oldest first.
//
// It stops at the first empty pop, so the result may be shorter than count.
// count == 0 performs no store calls. Messages returned here are gone from the
// store; if a pop fails midway the messages already removed are returned along
// with the error.
func Drain(ctx context.Context, q Queue, count int) ([]Message, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative, got %d", ErrValidation, count)
	}
	if count == 0 {
		return []Message{}, nil
	}

	items := make([]Message, 0, min(count, 64))
	name := q.Name()
	for range count {
		if err := ctx.Err(); err != nil {
			return items, err
		}
		b, ok, err := q.Pop(ctx)
		if err != nil {
			return items, err
		}
		if !ok {
			break
		}
		items = append(items, Message{Queue: name, Payload: b})
	}
	return items, nil
}

// ParseCount reads the count query parameter of a poll. An empty string means
// DefaultCount. Anything that is not a positive base-10 integer is a
// validation error; it is never coerced.
func ParseCount(raw string) (int, error) {
	if raw == "" {
		return DefaultCount, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: count %q is not an integer", ErrValidation, raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: count must be a positive integer, got %d", ErrValidation, n)
	}
	return n, nil
}
