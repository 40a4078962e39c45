package xstatus

import (
	"github.com/trickstertwo/xlog"
)

// Observer receives hub lifecycle events. Implementations should be non-blocking.
type Observer interface {
	OnEvent(e Event)
}

// ObserverFunc is an Adapter that lets a plain function satisfy Observer.
type ObserverFunc func(e Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// LoggingObserver is an Adapter that emits hub events via xlog.
type LoggingObserver struct {
	Logger *xlog.Logger
}

func (o LoggingObserver) OnEvent(e Event) {
	if o.Logger == nil {
		return
	}
	ev := o.Logger.With(
		xlog.Str("type", string(e.Type)),
		xlog.Str("queue", e.Queue),
	)
	if e.Duration > 0 {
		ev = ev.With(xlog.Dur("duration", e.Duration))
	}
	if e.Err != nil || e.Type == Error {
		ev.Warn().Err(e.Err).Msg("xstatus event")
		return
	}
	// xlog events carry numbers as Float64; counts are converted.
	switch e.Type {
	case DrainDone:
		ev.Debug().
			Float64("requested", float64(e.Requested)).
			Float64("items", float64(e.Items)).
			Msg("xstatus event")
	case SizeChecked:
		ev.Debug().Float64("size", float64(e.Size)).Msg("xstatus event")
	default:
		ev.Debug().Msg("xstatus event")
	}
}
