package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// LevelTrace is below DEBUG and logs every frame read or decoded.
const LevelTrace = slog.LevelDebug - 4

var (
	ErrLoggerInvalidLogLevel  = fmt.Errorf("invalid log level")
	ErrLoggerInvalidLogFormat = fmt.Errorf("invalid log format")
)

// NewLogger returns a logger writing to stderr, keeping stdout free for command output.
func NewLogger(logLevel, logFormat string) (*slog.Logger, error) {
	return NewLoggerWithWriter(os.Stderr, logLevel, logFormat)
}

func NewLoggerWithWriter(w io.Writer, logLevel, logFormat string) (*slog.Logger, error) {
	slogLevel, err := getSlogLevel(logLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: slogLevel, ReplaceAttr: replaceLevel}

	switch logFormat {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "tint":
		return slog.New(tint.NewHandler(w, &tint.Options{Level: slogLevel, ReplaceAttr: replaceLevel})), nil
	}

	return nil, errors.Join(ErrLoggerInvalidLogFormat, fmt.Errorf("log format: %s", logFormat))
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	if level, ok := a.Value.Any().(slog.Level); ok && level == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}

	return a
}

func getSlogLevel(logLevel string) (slog.Level, error) {
	switch logLevel {
	case "TRACE":
		return LevelTrace, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	}

	return slog.LevelInfo, errors.Join(ErrLoggerInvalidLogLevel, fmt.Errorf("log level: %s", logLevel))
}
