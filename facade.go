package xstatus

import (
	"context"
)

// Default returns the process-wide Hub installed by SetDefault or an adapter's
// Use function.
func Default() (*Hub, error) {
	defaultHubMu.Lock()
	defer defaultHubMu.Unlock()
	if defaultHub == nil {
		return nil, ErrDefaultHubNotInitialized
	}
	return defaultHub, nil
}

// SetDefault replaces the process-wide default Hub.
func SetDefault(h *Hub) {
	if h == nil {
		panic("xstatus: SetDefault called with nil Hub")
	}
	defaultHubMu.Lock()
	defaultHub = h
	defaultHubMu.Unlock()
}

// QueueHandle returns a handle on the named queue of the default hub, for
// reading or writing. Names should carry a feature and an id, like
// "equipment_upload_357".
func QueueHandle(name string) (*Handle, error) {
	h, err := Default()
	if err != nil {
		return nil, err
	}
	return h.Queue(name)
}

// Push is the Facade that enqueues payload on the default hub.
func Push(ctx context.Context, queue string, payload any) error {
	h, err := Default()
	if err != nil {
		return err
	}
	return h.Push(ctx, queue, payload)
}

// PushStatus is the Facade that enqueues a {status, msg} record on the default hub.
func PushStatus(ctx context.Context, queue string, level Level, msg string) error {
	h, err := Default()
	if err != nil {
		return err
	}
	return h.PushStatus(ctx, queue, level, msg)
}
