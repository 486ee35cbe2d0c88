package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with streamtrace-specific helpers so that every
// command logs the same field names.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler. A nil handler logs text to
// stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// FromFlags builds the logger selected by --log-format and --log-level.
func FromFlags(w io.Writer, format, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextLogger(w, lvl), nil
	case "json":
		return NewJSONLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}
}

func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
	return lvl, nil
}

// WithField tags the logger with the field being traced.
func (l *Logger) WithField(name string) *Logger {
	return &Logger{Logger: l.Logger.With("field", name)}
}

// LogTrace logs one traced streamline.
func (l *Logger) LogTrace(ctx context.Context, x, y float64, points int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "trace failed",
			"seed_x", x,
			"seed_y", y,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "trace completed",
		"seed_x", x,
		"seed_y", y,
		"points", points,
		"elapsed", elapsed,
	)
}

// LogBatch logs the outcome of a multi-seed run.
func (l *Logger) LogBatch(ctx context.Context, seeds, skipped int, elapsed time.Duration) {
	if skipped > 0 {
		l.WarnContext(ctx, "batch completed with skipped seeds",
			"seeds", seeds,
			"skipped", skipped,
			"elapsed", elapsed,
		)
		return
	}
	l.InfoContext(ctx, "batch completed",
		"seeds", seeds,
		"elapsed", elapsed,
	)
}

// LogRunSaved logs where a run was written.
func (l *Logger) LogRunSaved(ctx context.Context, runID, dir string) {
	l.InfoContext(ctx, "run saved",
		"run_id", runID,
		"dir", dir,
	)
}
