// Package logger builds the process wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON to stdout, or a console writer when
// pretty is set. An unknown level falls back to info.
func New(level string, pretty bool, service string) zerolog.Logger {
	return newLogger(os.Stdout, level, pretty, service)
}

func newLogger(out io.Writer, level string, pretty bool, service string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
