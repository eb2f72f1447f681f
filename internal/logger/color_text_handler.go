package logger

import (
	"io"
	"log/slog"
)

// ColorTextHandler wraps slog.TextHandler to colorize the level field by
// severity and, optionally, drop the time field entirely for a terser
// console line.
type ColorTextHandler struct {
	*slog.TextHandler
}

// NewColorTextHandler creates a new ColorTextHandler. When showTime is
// false, the time attribute is stripped from every record.
func NewColorTextHandler(w io.Writer, opts *slog.HandlerOptions, showTime bool) *ColorTextHandler {
	var base slog.HandlerOptions
	if opts != nil {
		base = *opts
	}
	userReplace := base.ReplaceAttr
	base.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 {
			switch a.Key {
			case slog.TimeKey:
				if !showTime {
					return slog.Attr{}
				}
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(colorizeLevel(lvl))
				}
			}
		}
		if userReplace != nil {
			return userReplace(groups, a)
		}
		return a
	}
	return &ColorTextHandler{TextHandler: slog.NewTextHandler(w, &base)}
}

func colorizeLevel(level slog.Level) string {
	return levelColor(level) + level.String() + "\033[0m"
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "\033[31m"
	case level >= slog.LevelWarn:
		return "\033[33m"
	case level >= slog.LevelInfo:
		return "\033[32m"
	default:
		return "\033[36m"
	}
}
