package xstatus

import "fmt"

// Separator joins the prefix and the logical queue name.
const Separator = "_"

// Resolve derives the physical store key for a logical queue name. It is pure:
// the same (logical, prefix) pair always yields the same key. Callers keep
// logical names distinct, e.g. "equipment_upload_357".
func Resolve(logical, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: key prefix must not be empty", ErrConfiguration)
	}
	if logical == "" {
		return "", fmt.Errorf("%w: queue name must not be empty", ErrConfiguration)
	}
	return prefix + Separator + logical, nil
}

// Namespace binds a validated prefix so many logical names can be resolved
// against it.
type Namespace struct {
	prefix string
}

// NewNamespace validates prefix once at setup time.
func NewNamespace(prefix string) (Namespace, error) {
	if prefix == "" {
		return Namespace{}, fmt.Errorf("%w: key prefix must not be empty", ErrConfiguration)
	}
	return Namespace{prefix: prefix}, nil
}

func (n Namespace) Prefix() string { return n.prefix }

// Resolve maps logical to its physical name under this namespace.
func (n Namespace) Resolve(logical string) (string, error) {
	return Resolve(logical, n.prefix)
}
