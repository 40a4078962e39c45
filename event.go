package xstatus

import (
	"time"
)

// EventType enumerates internal lifecycle events for Observer pattern.
type EventType string

const (
	PushStart   EventType = "push_start"
	PushDone    EventType = "push_done"
	DrainStart  EventType = "drain_start"
	DrainDone   EventType = "drain_done"
	SizeChecked EventType = "size_checked"
	Cleared     EventType = "cleared"
	Error       EventType = "error"
)

// Event carries telemetry for observers.
type Event struct {
	Type EventType
	// Queue is the physical queue name.
	Queue string
	// Requested is the drain count asked for.
	Requested int
	// Items is the number of messages actually drained.
	Items int
	// Size is the observed queue length for SizeChecked.
	Size     int64
	Duration time.Duration
	Err      error

	// attached for async dispatch
	observers []Observer
}

// Metrics is a snapshot of hub counters.
type Metrics struct {
	Pushed              uint64
	Drains              uint64
	Drained             uint64
	EmptyChecks         uint64
	Errors              uint64
	EventsDropped       uint64
	AvgProcessingTimeMs float64
}

// HealthStatus indicates hub health for Kubernetes probes.
type HealthStatus struct {
	Status    string // "healthy", "degraded", "unhealthy"
	Metrics   Metrics
	Timestamp time.Time
	Message   string
}

// PoolStats returns telemetry about the observer pool.
type PoolStats struct {
	Dropped      uint64
	Processed    uint64
	ActiveEvents int
	Workers      int
	BufferSize   int
}
