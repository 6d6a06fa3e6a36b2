package logger

import (
	"io"
	"log/slog"
	"strings"
)

type BaseLogger struct {
	prefix string
	root   *slog.Logger
	slog   *slog.Logger
}

// NewLogger writes JSON records to writer. The prefix is emitted as the "component" attribute.
func NewLogger(writer io.Writer, prefix string, debug bool) *BaseLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	return newBaseLogger(slog.New(h), prefix)
}

func newBaseLogger(root *slog.Logger, prefix string) *BaseLogger {
	return &BaseLogger{
		prefix: prefix,
		root:   root,
		slog:   root.With("component", prefix),
	}
}

// Discard returns a logger that drops everything.
func Discard() *BaseLogger {
	return NewLogger(io.Discard, "", false)
}

func (l *BaseLogger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *BaseLogger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *BaseLogger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *BaseLogger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

func (l *BaseLogger) With(args ...any) Logger {
	return newBaseLogger(l.root.With(args...), l.prefix)
}

func (l *BaseLogger) WithPrefix(extraPrefix string) Logger {
	return newBaseLogger(l.root, strings.TrimSpace(l.prefix+" "+extraPrefix))
}

func (l *BaseLogger) Prefix() string {
	return l.prefix
}
