package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
)

var (
	mu            sync.RWMutex
	defaultLogger = newConsoleLogger(os.Stderr, slog.LevelInfo)
)

// Default returns the process-wide logger
func Default() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger
func SetDefault(logger *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
}

func newConsoleLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithSource(true),
		clog.WithReplaceAttr(redactor()),
	)
	return slog.New(handler)
}

// NewConsole creates a human-readable console logger
func NewConsole(w io.Writer, level slog.Level) *slog.Logger {
	return newConsoleLogger(w, level)
}

// NewJSON creates a machine-readable JSON logger
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactor(),
	})
	return slog.New(handler)
}

// redactor masks secret-bearing attributes so webhook secrets and
// provider keys never reach the log stream.
func redactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithContain("secret"),
		masq.WithContain("password"),
		masq.WithContain("token"),
		masq.WithContain("api_key"),
	)
}

type ctxLoggerKey struct{}

// With attaches a logger to the context
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From retrieves the logger from the context, falling back to the
// process-wide default
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}
