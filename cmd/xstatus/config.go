package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trickstertwo/xstatus/adapter/redislist"
)

// Config holds all configuration for the xstatus command.
type Config struct {
	Verbose     bool
	Redis       redislist.Config
	PushTimeout time.Duration

	// serve only
	Addr            string
	PathPrefix      string
	MetricsAddr     string
	ShutdownTimeout time.Duration
}

// buildConfig layers CLI flags over the XSTATUS_* environment.
func buildConfig(c *cli.Context) (*Config, error) {
	redisCfg, err := redislist.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load redis config: %w", err)
	}
	if c.IsSet("redis-url") && c.String("redis-url") != "" {
		u, err := redislist.ConfigFromURL(c.String("redis-url"))
		if err != nil {
			return nil, err
		}
		redisCfg.Addr = u.Addr
		redisCfg.Username = u.Username
		redisCfg.Password = u.Password
		redisCfg.DB = u.DB
		redisCfg.TLS = u.TLS
		redisCfg.TLSServerName = u.TLSServerName
	}
	if c.IsSet("key-prefix") && c.String("key-prefix") != "" {
		redisCfg.Prefix = c.String("key-prefix")
	}
	if err := redisCfg.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		Verbose:         c.Bool("verbose"),
		Redis:           redisCfg,
		PushTimeout:     c.Duration("push-timeout"),
		Addr:            c.String("addr"),
		PathPrefix:      normalizePrefix(c.String("path-prefix")),
		MetricsAddr:     c.String("metrics-addr"),
		ShutdownTimeout: c.Duration("shutdown-timeout"),
	}, nil
}

// normalizePrefix returns p with exactly one leading and trailing slash.
func normalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// queueArg returns the single positional queue name.
func queueArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one <queue> argument, got %d", c.NArg())
	}
	return c.Args().First(), nil
}
