// Package logger provides structured logging for doxa.
//
// Logs always go to stderr (or a configured writer), never stdout, so the
// report on stdout stays machine-readable. The default level is Warn because
// callers typically parse stderr for the error record.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger *slog.Logger
	mu            sync.RWMutex
)

func init() {
	defaultLogger = newLogger(Options{})
}

// Options configures the logger.
type Options struct {
	Debug   bool         // Debug level and above
	Verbose bool         // Info level and above
	JSON    bool         // JSON handler instead of text
	Output  io.Writer    // Destination (default: stderr)
	Logger  *slog.Logger // Use this logger as-is, ignoring the other options
}

// Level returns the slog level implied by the options.
func (o Options) Level() slog.Level {
	switch {
	case o.Debug:
		return slog.LevelDebug
	case o.Verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Init replaces the package logger.
func Init(opts Options) {
	l := newLogger(opts)

	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

func newLogger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level()}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(output, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(output, handlerOpts))
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { current().Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// InfoContext logs at info level with a context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	current().InfoContext(ctx, msg, args...)
}
