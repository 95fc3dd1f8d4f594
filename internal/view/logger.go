// Package view holds the loggers used by the command line front end.
package view

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

// LogLevel selects which messages are printed.
type LogLevel int

// Logger is the logging surface of the compiler pipeline.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Supported log levels.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelSilent
)

var levelNames = map[string]LogLevel{
	"debug":  LogLevelDebug,
	"info":   LogLevelInfo,
	"warn":   LogLevelWarn,
	"error":  LogLevelError,
	"silent": LogLevelSilent,
}

// ParseLogLevel reads a level name such as "debug". The empty string means
// info.
func ParseLogLevel(s string) (LogLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LogLevelInfo, nil
	}

	if l, ok := levelNames[s]; ok {
		return l, nil
	}

	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) toSlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.Level(100)
	}
}

type slogLogger struct {
	logger *slog.Logger
}

var _ Logger = (*slogLogger)(nil)

func rewriteLogLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		level := a.Value.Any().(slog.Level)

		var levelText string
		switch level {
		case slog.LevelDebug:
			levelText = "DEBUG"
		case slog.LevelInfo:
			levelText = color.GreenString("INFO")
		case slog.LevelWarn:
			levelText = color.YellowString("WARN")
		case slog.LevelError:
			levelText = color.RedString("ERROR")
		default:
			levelText = level.String()
		}
		a.Value = slog.StringValue(levelText)
	}

	return a
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// NewHumanLogger creates a human-readable slog logger
func NewHumanLogger(w io.Writer, level LogLevel) Logger {
	opts := &tint.Options{
		Level:       level.toSlogLevel(),
		TimeFormat:  time.DateTime,
		ReplaceAttr: rewriteLogLevel,
		NoColor:     color.NoColor,
	}
	handler := tint.NewHandler(w, opts)

	return &slogLogger{logger: slog.New(handler)}
}

// NewJSONLogger creates a JSON-structured slog logger
func NewJSONLogger(w io.Writer, level LogLevel) Logger {
	opts := &slog.HandlerOptions{
		Level: level.toSlogLevel(),
	}
	handler := slog.NewJSONHandler(w, opts)

	return &slogLogger{logger: slog.New(handler)}
}

// NewNopLogger creates a no-op logger that discards all output
func NewNopLogger() Logger {
	return NewJSONLogger(io.Discard, LogLevelSilent)
}
