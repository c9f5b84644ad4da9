// Package cli implements the modtower command-line interface.
//
// The root command streams a G-code file through the injector; validate and
// plan work on a tower config alone. The CLI is built using cobra and logs
// with charmbracelet/log.
//
// # Commands
//
//   - modtower <input> -c <config>: inject tower commands into a G-code file
//   - validate: check a tower config and report every problem at once
//   - plan: print the per-level schedule for a given layer count
//   - completion: generate shell completion scripts
//
// # Output
//
// G-code goes to stdout or the --output-file. Logs, the verbose summary and
// status lines go to stderr so they never mix with G-code.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps as
// "HH:MM:SS.ms" (e.g. "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// LevelFor maps the --verbose flag to a log level.
func LevelFor(verbose bool) log.Level {
	if verbose {
		return LogDebug
	}
	return LogInfo
}

// progress logs the completion of a run with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the formatted message and the elapsed time, e.g.
// "Injected 12 lines after 12 of 250 layers (41ms)".
func (p *progress) done(format string, args ...any) {
	p.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. Commands get it back with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default() when
// a command runs without the root's pre-run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
