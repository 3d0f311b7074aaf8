// Package logger provides structured logging for translatedtext
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with component helpers
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // console output for development
	Output io.Writer
}

// New creates a structured logger
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "translatedtext").
		Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Zerolog returns the underlying zerolog logger
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

func (l *Logger) Debug() *zerolog.Event { return l.zlog.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zlog.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zlog.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zlog.Error() }

// With returns a child logger carrying the component name
func (l *Logger) With(component string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", component).Logger()}
}

// DbLogger returns a logger for one database operation
func (l *Logger) DbLogger(operation string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "database").
			Str("operation", operation).
			Logger(),
	}
}

// LogDbOperation logs a completed store operation. Successes log at debug.
func (l *Logger) LogDbOperation(operation string, duration time.Duration, recordCount int, err error) {
	if err != nil {
		l.zlog.Error().
			Str("component", "database").
			Str("operation", operation).
			Dur("duration_ms", duration).
			Err(err).
			Msg("Database operation failed")
		return
	}

	l.zlog.Debug().
		Str("component", "database").
		Str("operation", operation).
		Dur("duration_ms", duration).
		Int("record_count", recordCount).
		Msg("Database operation completed")
}

// LogRequest logs a completed HTTP request
func (l *Logger) LogRequest(method, path string, status int, duration time.Duration, requestID string) {
	event := l.zlog.Info()
	if status >= 500 {
		event = l.zlog.Error()
	}
	event.
		Str("component", "http").
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration_ms", duration).
		Str("request_id", requestID).
		Msg("HTTP request completed")
}
