package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance
var log zerolog.Logger

type ctxKey struct{}

// Init initializes the global logger
func Init(env string, logLevel string) {
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout

	// Pretty console output for development
	if env == "development" || env == "dev" || env == "" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}

	var level zerolog.Level
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Get returns the global logger
func Get() *zerolog.Logger {
	return &log
}

// WithContext returns the logger stored in ctx, or the global one.
func WithContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &log
}

// NewContext creates a new context carrying the logger
func NewContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithRequestID adds a request ID to the logger
func WithRequestID(requestID string) zerolog.Logger {
	return log.With().Str("request_id", requestID).Logger()
}

// --- Convenience Methods ---

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
