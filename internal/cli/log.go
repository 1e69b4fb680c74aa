// Package cli implements the tmdlayout command-line interface.
//
// # Commands
//
//   - layout: compute diagram positions for a semantic model
//   - categorize: show how each table was classified
//   - explain: fact scores, extensions, warnings and quality in detail
//   - inspect: browse the categorization interactively
//   - watch: recompute the layout whenever a TMDL file changes
//   - serve: run the HTTP layout API
//   - profile: print or validate a heuristics profile
//   - cache: clear the layout cache or print its location
//
// # Configuration
//
// Settings are layered: built-in defaults, the YAML config file
// ($XDG_CONFIG_HOME/tmdlayout/config.yaml or --config), TMDLAYOUT_*
// environment variables and finally command-line flags.
//
// # Logging
//
// All commands log to stderr; --verbose (-v) enables debug output. The
// logger travels on the command context, see loggerFromContext.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger on ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func withConfig(ctx context.Context, c *Config) context.Context {
	return context.WithValue(ctx, configKey, c)
}

// configFromContext returns the config on ctx, or the defaults.
func configFromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey).(*Config); ok {
		return c
	}
	return DefaultConfig()
}
