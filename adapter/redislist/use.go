package redislist

import (
	"fmt"

	"github.com/trickstertwo/xstatus"
)

const StoreName = "redis-list"

func init() {
	if err := xstatus.RegisterStore(StoreName, func(cfg map[string]any) (xstatus.Store, error) {
		c, err := ConfigFromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewStore(c)
	}); err != nil {
		panic(fmt.Errorf("xstatus: failed to register store %q: %w", StoreName, err))
	}
}

// Builder returns a HubBuilder wired to a Redis list store for cfg, with the
// key prefix taken from cfg.Prefix.
func Builder(cfg Config, opts ...Option) *xstatus.HubBuilder {
	hb := xstatus.NewHubBuilder().
		WithStore(StoreName, cfg.toMap()).
		WithPrefix(cfg.Prefix)
	for _, o := range opts {
		if o != nil {
			o(hb)
		}
	}
	return hb
}

// Use builds a Hub on Redis lists, installs it as the process-wide default and
// returns it. It panics when Redis is unreachable at startup.
func Use(cfg Config, opts ...Option) *xstatus.Hub {
	hub, err := Builder(cfg, opts...).Build()
	if err != nil {
		panic(fmt.Errorf("redislist.Use: %w", err))
	}
	xstatus.SetDefault(hub)
	return hub
}
