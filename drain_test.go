package xstatus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloads(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = string(m.Payload)
	}
	return out
}

// TestDrain_OldestFirst tests that items come back in push order.
func TestDrain_OldestFirst(t *testing.T) {
	q := newFakeQueue("app_job_1", "a", "b", "c")

	items, err := Drain(context.Background(), q, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, payloads(items))
	assert.Equal(t, "app_job_1", items[0].Queue)

	rest, err := Drain(context.Background(), q, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, payloads(rest))
}

// TestDrain_StopsAtFirstEmptyPop tests that a short queue ends the drain early.
func TestDrain_StopsAtFirstEmptyPop(t *testing.T) {
	q := newFakeQueue("q", "a", "b")

	items, err := Drain(context.Background(), q, 5)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, q.popCount(), "two hits and one empty pop")
}

// TestDrain_ZeroCount tests that count 0 performs no store calls.
func TestDrain_ZeroCount(t *testing.T) {
	q := newFakeQueue("q", "a")

	items, err := Drain(context.Background(), q, 0)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 0, q.popCount())
}

// TestDrain_NegativeCount tests that a negative count is rejected before any pop.
func TestDrain_NegativeCount(t *testing.T) {
	q := newFakeQueue("q", "a")

	_, err := Drain(context.Background(), q, -1)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, q.popCount())
}

// TestDrain_EmptyQueue tests a single empty pop on an empty queue.
func TestDrain_EmptyQueue(t *testing.T) {
	q := newFakeQueue("q")

	items, err := Drain(context.Background(), q, 5)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, q.popCount())
}

// TestDrain_PopFailureReturnsPartial tests that already-removed items survive a
// mid-drain failure.
func TestDrain_PopFailureReturnsPartial(t *testing.T) {
	q := newFakeQueue("q", "a", "b", "c")
	q.failPopAt = 3

	items, err := Drain(context.Background(), q, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, errFakeDown)
	assert.Equal(t, []string{"a", "b"}, payloads(items))
}

// TestDrain_CanceledContext tests that a canceled context stops the loop.
func TestDrain_CanceledContext(t *testing.T) {
	q := newFakeQueue("q", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := Drain(ctx, q, 3)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, items)
	assert.Equal(t, 0, q.popCount())
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: DefaultCount},
		{raw: "0", wantErr: true},
		{raw: "1", want: 1},
		{raw: "25", want: 25},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "2.5", wantErr: true},
		{raw: " 3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCount(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
