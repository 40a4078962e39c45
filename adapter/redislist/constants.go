package redislist

import "time"

const (
	defaultAddr         = "127.0.0.1:6379"
	defaultPrefix       = "xstatus"
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
	defaultPoolSize     = 10
	defaultMinIdleConns = 2

	// pingTimeout bounds the reachability check done at construction.
	pingTimeout = 2 * time.Second
)
