// Package logger builds the supervisor's own operational logger: a
// colorized console handler plus an optional lumberjack-rotated file
// handler, both driven by log/slog. This is distinct from the bespoke
// per-process output rotation the executor performs on a child's own
// stdout/stderr log.
package logger

import (
	"context"
	"log/slog"
	"os"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation parameters for the operator log file, mirrored from
// the sizes a small local supervisor process is expected to produce.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Options configures the operator logger.
type Options struct {
	Level        slog.Level
	ConsoleColor bool
	// FilePath, when non-empty, additionally writes logs to a
	// lumberjack-rotated file.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds the operator *slog.Logger described by opts.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	handlers := make([]slog.Handler, 0, 2)
	if opts.ConsoleColor {
		handlers = append(handlers, NewColorTextHandler(os.Stderr, handlerOpts, true))
	} else {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, handlerOpts))
	}

	if opts.FilePath != "" {
		rotated := &lj.Logger{
			Filename:   opts.FilePath,
			MaxSize:    valOr(opts.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valOr(opts.MaxBackups, DefaultMaxBackups),
			MaxAge:     valOr(opts.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   opts.Compress,
		}
		handlers = append(handlers, slog.NewTextHandler(rotated, handlerOpts))
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(newFanoutHandler(handlers))
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// fanoutHandler dispatches every record to each of its handlers. The
// pack's examples pull in no dedicated slog fan-out library, so this
// stays a small in-package helper rather than a hand-rolled substitute
// for something the ecosystem already solves well.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers []slog.Handler) *fanoutHandler {
	return &fanoutHandler{handlers: handlers}
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}
