package xstatus

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports bad or missing setup inputs (namespace prefix,
	// logical names, store settings). Not recoverable at runtime.
	ErrConfiguration = errors.New("xstatus: configuration error")
	// ErrConnection reports an unreachable store or an auth failure. It is never
	// retried internally; retry policy belongs to the caller.
	ErrConnection = errors.New("xstatus: connection error")
	// ErrValidation reports malformed caller input, rejected before any store call.
	ErrValidation = errors.New("xstatus: validation error")

	ErrHubClosed                   = errors.New("xstatus: hub is closed")
	ErrNoStoreConfigured           = errors.New("xstatus: no store configured")
	ErrDefaultHubNotInitialized    = errors.New("xstatus: default hub not initialized")
	ErrObserverPoolShutdownTimeout = errors.New("xstatus: observer pool shutdown timeout")
)

type ErrUnknownStore struct{ name string }

func (e ErrUnknownStore) Error() string { return fmt.Sprintf("unknown store: %s", e.name) }

func (e ErrUnknownStore) Unwrap() error { return ErrConfiguration }

// StoreError decorates a failed store round-trip. It matches both ErrConnection
// and the underlying client error with errors.Is.
type StoreError struct {
	Op    string
	Queue string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("xstatus: %s %s: %v", e.Op, e.Queue, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrConnection, e.Err} }
