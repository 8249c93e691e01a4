package core

import (
	"fmt"
	"log/slog"
	"os"
)

// Level is a logging severity, using the same numeric scale as slog so the
// two interoperate without translation.
type Level int

const (
	LevelTrace Level = -8
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
	LevelFatal Level = 12
)

// ParseLevel parses a string representation of a log level (TRACE, DEBUG,
// INFO, WARN, ERROR, FATAL) into a Level value, returning an error for
// invalid inputs.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// String returns the human-readable name of the level, or "UNKNOWN".
func (level Level) String() string {
	switch level {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger is the router's leveled, structured logger. Call sites pass the
// component emitting the message (anything with a String() method, usually
// the table or pipeline stage) followed by a message and key-value pairs,
// mirroring the teacher daemon's core.Log.Info(module, msg, "k", v, ...)
// idiom throughout fw/mgmt and fw/face.
type Logger struct {
	h     *slog.Logger
	level Level
}

// NewLogger builds a Logger writing to stderr at the given level.
func NewLogger(level Level) *Logger {
	h := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(level),
	}))
	return &Logger{h: h, level: level}
}

func (l *Logger) with(module fmt.Stringer, args []any) []any {
	out := make([]any, 0, len(args)+2)
	out = append(out, "module", module.String())
	out = append(out, args...)
	return out
}

func (l *Logger) Trace(module fmt.Stringer, msg string, args ...any) {
	l.h.Log(nil, slog.Level(LevelTrace), msg, l.with(module, args)...)
}

func (l *Logger) Debug(module fmt.Stringer, msg string, args ...any) {
	l.h.Debug(msg, l.with(module, args)...)
}

func (l *Logger) Info(module fmt.Stringer, msg string, args ...any) {
	l.h.Info(msg, l.with(module, args)...)
}

func (l *Logger) Warn(module fmt.Stringer, msg string, args ...any) {
	l.h.Warn(msg, l.with(module, args)...)
}

func (l *Logger) Error(module fmt.Stringer, msg string, args ...any) {
	l.h.Error(msg, l.with(module, args)...)
}

// Fatal logs at fatal level then terminates the process, matching the
// teacher's use of core.Log.Fatal for unrecoverable startup errors.
func (l *Logger) Fatal(module fmt.Stringer, msg string, args ...any) {
	l.h.Log(nil, slog.Level(LevelFatal), msg, l.with(module, args)...)
	os.Exit(1)
}

// Log is the process-wide logger, mirroring the teacher's package-level
// core.Log used by every component instead of threading a logger through
// every call.
var Log = NewLogger(LevelInfo)

// SetLevel adjusts the process-wide logger's minimum level, used by
// cmd/fastfwd after reading the config file's core.log_level.
func SetLevel(level Level) {
	Log = NewLogger(level)
}
