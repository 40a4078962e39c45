package main

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trickstertwo/xstatus"
)

// globalFlags apply to every command. Unset flags fall back to the
// XSTATUS_* environment read by redislist.LoadConfig.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable verbose logging",
			EnvVars: []string{"XSTATUS_VERBOSE"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Aliases: []string{"r"},
			Usage:   "Redis URL (redis:// or rediss:// for TLS)",
			EnvVars: []string{"XSTATUS_REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "key-prefix",
			Aliases: []string{"p"},
			Usage:   "Key prefix every queue name is resolved under",
			EnvVars: []string{"XSTATUS_KEY_PREFIX"},
		},
		&cli.DurationFlag{
			Name:    "push-timeout",
			Usage:   "Deadline applied to each push",
			EnvVars: []string{"XSTATUS_PUSH_TIMEOUT"},
			Value:   5 * time.Second,
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "Listen address for poll endpoints",
			EnvVars: []string{"XSTATUS_ADDR"},
			Value:   ":8080",
		},
		&cli.StringFlag{
			Name:    "path-prefix",
			Usage:   "URL path the poll endpoints are mounted under",
			EnvVars: []string{"XSTATUS_PATH_PREFIX"},
			Value:   "/status/",
		},
		&cli.StringFlag{
			Name:    "metrics-addr",
			Usage:   "Listen address for Prometheus metrics (empty disables)",
			EnvVars: []string{"XSTATUS_METRICS_ADDR"},
			Value:   ":9090",
		},
		&cli.DurationFlag{
			Name:    "shutdown-timeout",
			Usage:   "Grace period for in-flight requests on shutdown",
			EnvVars: []string{"XSTATUS_SHUTDOWN_TIMEOUT"},
			Value:   10 * time.Second,
		},
	}
}

func pushFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "status",
			Aliases: []string{"s"},
			Usage:   "Record level: info, success, warning or error",
			Value:   string(xstatus.LevelInfo),
		},
		&cli.StringFlag{
			Name:     "msg",
			Aliases:  []string{"m"},
			Usage:    "Record message",
			Required: true,
		},
	}
}

func drainFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Maximum number of records to pop",
			Value:   "5",
		},
	}
}
