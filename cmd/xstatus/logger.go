package main

import (
	"time"

	"github.com/trickstertwo/xlog"
	"github.com/trickstertwo/xlog/adapter/zerolog"
)

// newLogger returns the process logger. Verbose turns on hub event logs,
// which are emitted at debug level.
func newLogger(verbose bool) *xlog.Logger {
	level := xlog.LevelInfo
	if verbose {
		level = xlog.LevelDebug
	}
	return zerolog.Use(zerolog.Config{
		MinLevel:          level,
		Console:           true,
		ConsoleTimeFormat: time.RFC3339,
		Caller:            verbose,
		CallerSkip:        5,
	}).With(xlog.Str("app", "xstatus"))
}
