package xstatus

import (
	"context"
	"sync"
	"time"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// HubBuilder constructs Hub instances (Builder pattern).
type HubBuilder struct {
	storeName string
	storeCfg  map[string]any
	storeInst Store

	prefix string

	codecName string
	codecInst Codec

	middlewares []Middleware
	observers   []Observer
	logger      *xlog.Logger
	clock       xclock.Clock
	pushTimeout time.Duration

	poolWorkers int
	poolBuffer  int
}

// NewHubBuilder returns a new builder with sensible defaults.
func NewHubBuilder() *HubBuilder {
	return &HubBuilder{
		codecName:   "json",
		pushTimeout: 5 * time.Second,
		poolWorkers: 4,
		poolBuffer:  1024,
	}
}

// WithStore selects a registered store by name.
func (hb *HubBuilder) WithStore(name string, cfg map[string]any) *HubBuilder {
	hb.storeName = name
	hb.storeCfg = cfg
	return hb
}

// WithStoreInstance accepts a ready Store instance (e.g., sharing a client).
func (hb *HubBuilder) WithStoreInstance(s Store) *HubBuilder {
	hb.storeInst = s
	return hb
}

// WithPrefix sets the key prefix all logical queue names are resolved under.
func (hb *HubBuilder) WithPrefix(prefix string) *HubBuilder {
	hb.prefix = prefix
	return hb
}

func (hb *HubBuilder) WithCodec(name string) *HubBuilder {
	hb.codecName = name
	return hb
}

func (hb *HubBuilder) WithCodecInstance(c Codec) *HubBuilder {
	hb.codecInst = c
	return hb
}

// WithMiddleware adds producer-side push middlewares.
func (hb *HubBuilder) WithMiddleware(mw ...Middleware) *HubBuilder {
	hb.middlewares = append(hb.middlewares, mw...)
	return hb
}

func (hb *HubBuilder) WithObserver(obs ...Observer) *HubBuilder {
	for _, o := range obs {
		if o != nil {
			hb.observers = append(hb.observers, o)
		}
	}
	return hb
}

func (hb *HubBuilder) WithLogger(l *xlog.Logger) *HubBuilder {
	hb.logger = l
	return hb
}

func (hb *HubBuilder) WithClock(c xclock.Clock) *HubBuilder {
	hb.clock = c
	return hb
}

// WithPushTimeout bounds every push; zero disables the bound.
func (hb *HubBuilder) WithPushTimeout(d time.Duration) *HubBuilder {
	if d >= 0 {
		hb.pushTimeout = d
	}
	return hb
}

// WithObserverPool sizes the async observer dispatcher.
func (hb *HubBuilder) WithObserverPool(workers, bufferSize int) *HubBuilder {
	hb.poolWorkers = workers
	hb.poolBuffer = bufferSize
	return hb
}

// Build validates the configuration and returns a ready Hub.
func (hb *HubBuilder) Build() (*Hub, error) {
	ns, err := NewNamespace(hb.prefix)
	if err != nil {
		return nil, err
	}

	var cd Codec
	if hb.codecInst != nil {
		cd = hb.codecInst
	} else {
		cd, err = NewCodec(hb.codecName)
		if err != nil {
			return nil, err
		}
	}

	var st Store
	switch {
	case hb.storeInst != nil:
		st = hb.storeInst
	case hb.storeName != "":
		st, err = NewStore(hb.storeName, hb.storeCfg)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrNoStoreConfigured
	}

	clk := hb.clock
	if clk == nil {
		clk = xclock.Default()
	}
	lg := hb.logger
	if lg == nil {
		lg = xlog.Default()
	}

	h := &Hub{
		store:        st,
		ns:           ns,
		codec:        cd,
		clock:        clk,
		logger:       lg,
		observerPool: NewObserverPool(context.Background(), hb.poolWorkers, hb.poolBuffer),
		metrics:      &hubMetrics{},
	}
	mws := append([]Middleware{RecoveryMiddleware(), TimeoutMiddleware(hb.pushTimeout)}, hb.middlewares...)
	h.push = Chain(func(ctx context.Context, queue string, item []byte) error {
		return st.Queue(queue).Push(ctx, item)
	}, mws...)

	hasLoggingObserver := false
	for _, o := range hb.observers {
		if _, ok := o.(LoggingObserver); ok {
			hasLoggingObserver = true
			break
		}
	}
	if !hasLoggingObserver {
		h.AddObserver(LoggingObserver{Logger: lg})
	}
	for _, o := range hb.observers {
		h.AddObserver(o)
	}
	return h, nil
}

var (
	defaultHub   *Hub
	defaultHubMu sync.Mutex
)

// New constructs a Hub via Builder and returns a close func for convenience.
func New(init func(b *HubBuilder)) (*Hub, func() error, error) {
	b := NewHubBuilder()
	if init != nil {
		init(b)
	}
	hub, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() error { return hub.Close(context.Background()) }
	return hub, closeFn, nil
}
