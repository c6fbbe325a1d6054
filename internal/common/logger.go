package common

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel represents the logging level
type LogLevel string

// Log levels
const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// TimestampFormat is second-precision UTC ISO-8601 with a "Z" suffix, the
// format every observability record and payload carries.
const TimestampFormat = "2006-01-02T15:04:05Z"

// UTCTimestamp returns the current time in TimestampFormat.
func UTCTimestamp() string {
	return time.Now().UTC().Format(TimestampFormat)
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	// Level is the minimum level of logs to output
	Level LogLevel
	// Output is where logs are written (defaults to os.Stdout)
	Output io.Writer
	// Cluster is attached to every record
	Cluster string
}

// DefaultLoggerConfig returns the default logger configuration
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  InfoLevel,
		Output: os.Stdout,
	}
}

// loggerKeyType is used as context key type
type loggerKeyType struct{}

// loggerKey is the context key for logger
var loggerKey = loggerKeyType{}

// ContextWithLogger adds logger to context
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext gets logger from context
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// NewLogger creates a structured logger emitting one JSON record per line.
// The message key is renamed to "event" and the time key to "timestamp" so
// each record reads {event, cluster, timestamp, ...}.
func NewLogger(config LoggerConfig) *slog.Logger {
	var level slog.Level
	switch config.Level {
	case DebugLevel:
		level = slog.LevelDebug
	case WarnLevel:
		level = slog.LevelWarn
	case ErrorLevel:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if config.Output == nil {
		config.Output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("timestamp", a.Value.Time().UTC().Format(TimestampFormat))
			case slog.MessageKey:
				a.Key = "event"
			}
			return a
		},
	}

	logger := slog.New(slog.NewJSONHandler(config.Output, opts))
	if config.Cluster != "" {
		logger = logger.With(slog.String("cluster", config.Cluster))
	}
	return logger
}
