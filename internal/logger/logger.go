package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey string

const runIDKey ctxKey = "run_id"

var defaultLogger *zerolog.Logger

// Init initializes the global logger with the specified level and format
func Init(level, format string) {
	initWithWriter(level, format, os.Stdout)
}

func initWithWriter(level, format string, out io.Writer) {
	var logLevel zerolog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		logLevel = zerolog.DebugLevel
	case "INFO":
		logLevel = zerolog.InfoLevel
	case "WARN":
		logLevel = zerolog.WarnLevel
	case "ERROR":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	if format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).Level(logLevel).With().Timestamp().Logger()
	defaultLogger = &l
}

// Get returns the default logger instance
func Get() *zerolog.Logger {
	if defaultLogger == nil {
		Init("INFO", "json")
	}
	return defaultLogger
}

// ContextWithRunID tags ctx so that WithContext loggers carry the run id.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run id stored by ContextWithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok
}

// WithContext returns a logger with context-specific fields
func WithContext(ctx context.Context) *zerolog.Logger {
	if id, ok := RunIDFromContext(ctx); ok {
		l := Get().With().Str("run_id", id).Logger()
		return &l
	}
	return Get()
}

// WithFields returns a logger with additional key-value pairs
func WithFields(fields map[string]any) *zerolog.Logger {
	l := Get().With().Fields(fields).Logger()
	return &l
}

// NewRunID generates a new UUID for run tracking
func NewRunID() string {
	return uuid.New().String()
}

// Fatal logs an error message and exits the application
func Fatal(err error, msg string) {
	Get().Error().Err(err).Msg(msg)
	os.Exit(1)
}
