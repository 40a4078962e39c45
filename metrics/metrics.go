package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trickstertwo/xstatus"
)

const (
	Namespace = "xstatus"

	// Status label values for success/error metrics
	StatusSuccess = "success"
	StatusError   = "error"
)

var _ xstatus.Observer = (*Metrics)(nil)

// Metrics exports hub lifecycle events to Prometheus. Register it on a hub with
// AddObserver or HubBuilder.WithObserver.
//
// Events reach observers through the hub's async pool, which drops them when
// its buffer is full. Under bursts these counters undercount by the value of
// xstatus_observer_events_dropped_total; see NewHubCollector.
//
// Queue names are deliberately not used as labels: they embed record ids and
// would explode cardinality.
type Metrics struct {
	pushes         *prometheus.CounterVec
	pushDuration   prometheus.Histogram
	drains         *prometheus.CounterVec
	drainedItems   prometheus.Counter
	drainShortfall prometheus.Counter
	drainDuration  prometheus.Histogram
	sizeChecks     *prometheus.CounterVec
	clears         prometheus.Counter
	errors         *prometheus.CounterVec
}

// New creates a Metrics instance and registers all collectors with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	buckets := []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	m := &Metrics{
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "pushes_total",
			Help:      "Total pushes by status",
		}, []string{"status"}),
		pushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "push_duration_seconds",
			Help:      "Push round-trip duration in seconds",
			Buckets:   buckets,
		}),
		drains: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "drains_total",
			Help:      "Total drains by status",
		}, []string{"status"}),
		drainedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "drained_items_total",
			Help:      "Total messages removed from queues by drains",
		}),
		drainShortfall: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "drain_shortfall_total",
			Help:      "Total requested-but-unavailable messages across drains",
		}),
		drainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "drain_duration_seconds",
			Help:      "Drain duration in seconds (count round-trips)",
			Buckets:   buckets,
		}),
		sizeChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "size_checks_total",
			Help:      "Total pre-drain size checks by outcome (empty/nonempty)",
		}, []string{"outcome"}),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "clears_total",
			Help:      "Total queue clears",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total errors by class",
		}, []string{"class"}),
	}

	collectors := []prometheus.Collector{
		m.pushes, m.pushDuration, m.drains, m.drainedItems, m.drainShortfall,
		m.drainDuration, m.sizeChecks, m.clears, m.errors,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MetricsSource is the part of a hub NewHubCollector reads.
type MetricsSource interface {
	GetMetrics() xstatus.Metrics
}

// NewHubCollector returns a counter read from the hub at scrape time. It
// reports the events the observer pool dropped, which never reach OnEvent.
func NewHubCollector(src MetricsSource) prometheus.Collector {
	return prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "observer_events_dropped_total",
		Help:      "Total hub events dropped because the observer buffer was full",
	}, func() float64 {
		return float64(src.GetMetrics().EventsDropped)
	})
}

// OnEvent implements xstatus.Observer.
func (m *Metrics) OnEvent(e xstatus.Event) {
	switch e.Type {
	case xstatus.PushDone:
		m.pushes.WithLabelValues(statusOf(e.Err)).Inc()
		m.pushDuration.Observe(e.Duration.Seconds())
	case xstatus.DrainDone:
		m.drains.WithLabelValues(statusOf(e.Err)).Inc()
		m.drainedItems.Add(float64(e.Items))
		if e.Requested > e.Items {
			m.drainShortfall.Add(float64(e.Requested - e.Items))
		}
		m.drainDuration.Observe(e.Duration.Seconds())
	case xstatus.SizeChecked:
		outcome := "nonempty"
		if e.Size == 0 {
			outcome = "empty"
		}
		m.sizeChecks.WithLabelValues(outcome).Inc()
	case xstatus.Cleared:
		m.clears.Inc()
	case xstatus.Error:
		m.errors.WithLabelValues(classOf(e.Err)).Inc()
	}
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

func classOf(err error) string {
	switch {
	case errors.Is(err, xstatus.ErrValidation):
		return "validation"
	case errors.Is(err, xstatus.ErrConfiguration):
		return "configuration"
	case errors.Is(err, xstatus.ErrConnection):
		return "connection"
	default:
		return "other"
	}
}
