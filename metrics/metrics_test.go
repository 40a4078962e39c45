package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xstatus"
	"github.com/trickstertwo/xstatus/adapter/memory"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	_, err = New(reg)
	require.Error(t, err, "second registration on the same registry must fail")
}

func TestOnEvent_Push(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.OnEvent(xstatus.Event{Type: xstatus.PushDone, Queue: "app_job_1", Duration: time.Millisecond})
	m.OnEvent(xstatus.Event{Type: xstatus.PushDone, Queue: "app_job_1", Duration: time.Millisecond})
	m.OnEvent(xstatus.Event{Type: xstatus.PushDone, Queue: "app_job_1", Err: errors.New("boom")})

	require.InDelta(t, 2, testutil.ToFloat64(m.pushes.WithLabelValues(StatusSuccess)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.pushes.WithLabelValues(StatusError)), 0)
	require.Equal(t, 1, testutil.CollectAndCount(m.pushDuration))
}

func TestOnEvent_Drain(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.OnEvent(xstatus.Event{Type: xstatus.DrainDone, Requested: 5, Items: 2})
	m.OnEvent(xstatus.Event{Type: xstatus.DrainDone, Requested: 3, Items: 3})

	require.InDelta(t, 2, testutil.ToFloat64(m.drains.WithLabelValues(StatusSuccess)), 0)
	require.InDelta(t, 5, testutil.ToFloat64(m.drainedItems), 0)
	require.InDelta(t, 3, testutil.ToFloat64(m.drainShortfall), 0)
}

func TestOnEvent_SizeAndClear(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.OnEvent(xstatus.Event{Type: xstatus.SizeChecked, Size: 0})
	m.OnEvent(xstatus.Event{Type: xstatus.SizeChecked, Size: 0})
	m.OnEvent(xstatus.Event{Type: xstatus.SizeChecked, Size: 4})
	m.OnEvent(xstatus.Event{Type: xstatus.Cleared})
	m.OnEvent(xstatus.Event{Type: xstatus.DrainStart})

	require.InDelta(t, 2, testutil.ToFloat64(m.sizeChecks.WithLabelValues("empty")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.sizeChecks.WithLabelValues("nonempty")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.clears), 0)
}

func TestOnEvent_ErrorClasses(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	storeErr := &xstatus.StoreError{Op: "pop", Queue: "q", Err: errors.New("dial tcp: refused")}
	m.OnEvent(xstatus.Event{Type: xstatus.Error, Err: storeErr})
	m.OnEvent(xstatus.Event{Type: xstatus.Error, Err: fmt.Errorf("%w: bad", xstatus.ErrValidation)})
	m.OnEvent(xstatus.Event{Type: xstatus.Error, Err: errors.New("other")})

	require.InDelta(t, 1, testutil.ToFloat64(m.errors.WithLabelValues("connection")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.errors.WithLabelValues("validation")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.errors.WithLabelValues("other")), 0)
	require.InDelta(t, 0, testutil.ToFloat64(m.errors.WithLabelValues("configuration")), 0)
}

// TestHubCollector_DroppedEvents tests that events lost while the observer
// pool is saturated show up as a counter instead of vanishing.
func TestHubCollector_DroppedEvents(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	block := xstatus.ObserverFunc(func(xstatus.Event) {
		once.Do(func() {
			close(started)
			<-release
		})
	})

	hub, err := xstatus.NewHubBuilder().
		WithStoreInstance(memory.NewStore(memory.Config{})).
		WithPrefix("test").
		WithObserver(block).
		WithObserverPool(1, 1).
		Build()
	require.NoError(t, err)
	defer func() { _ = hub.Close(context.Background()) }()
	defer close(release)

	dropped := NewHubCollector(hub)
	require.NoError(t, prometheus.NewRegistry().Register(dropped))
	require.InDelta(t, 0, testutil.ToFloat64(dropped), 0)

	ctx := context.Background()
	require.NoError(t, hub.PushStatus(ctx, "job", xstatus.LevelInfo, "first"))
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("observer never ran")
	}

	// One worker is stuck and the buffer holds one event, so at most one of
	// the next six events is kept.
	for range 3 {
		require.NoError(t, hub.PushStatus(ctx, "job", xstatus.LevelInfo, "burst"))
	}
	require.GreaterOrEqual(t, testutil.ToFloat64(dropped), 5.0)
	require.InDelta(t, float64(hub.GetMetrics().EventsDropped), testutil.ToFloat64(dropped), 0)
}
