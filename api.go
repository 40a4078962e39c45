package xstatus

import (
	"context"
)

// HealthChecker provides health status for production monitoring.
type HealthChecker interface {
	Health(ctx context.Context) HealthStatus
}

// API represents the complete xstatus surface.
type API interface {
	Queue(name string) (*Handle, error)
	Push(ctx context.Context, queue string, payload any) error
	PushStatus(ctx context.Context, queue string, level Level, msg string) error
	Drain(ctx context.Context, queue string, count int) ([]Message, error)
	Close(ctx context.Context) error
	GetMetrics() Metrics
	Health(ctx context.Context) HealthStatus
	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
}
