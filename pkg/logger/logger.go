package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"japanese-doc-reader/internal/domain"

	"github.com/rs/zerolog"
)

// ZeroLogger implements the domain.Logger interface on top of zerolog.
type ZeroLogger struct {
	log zerolog.Logger
}

// NewLogger creates a new logger instance. format is "console" or "json";
// anything else falls back to console output.
func NewLogger(levelStr, format string) domain.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if strings.ToLower(format) != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return &ZeroLogger{log: zl}
}

// Info logs an info message
func (l *ZeroLogger) Info(msg string, fields ...interface{}) {
	withFields(l.log.Info(), fields).Msg(msg)
}

// Error logs an error message
func (l *ZeroLogger) Error(msg string, err error, fields ...interface{}) {
	withFields(l.log.Error().Err(err), fields).Msg(msg)
}

// Debug logs a debug message
func (l *ZeroLogger) Debug(msg string, fields ...interface{}) {
	withFields(l.log.Debug(), fields).Msg(msg)
}

// Warn logs a warning message
func (l *ZeroLogger) Warn(msg string, fields ...interface{}) {
	withFields(l.log.Warn(), fields).Msg(msg)
}

// withFields attaches alternating key/value pairs to the event. A trailing
// key without a value is dropped.
func withFields(e *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		e = e.Interface(fmt.Sprint(fields[i]), fields[i+1])
	}
	return e
}
