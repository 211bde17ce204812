// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger: human readable at debug level in
// development, JSON at info level otherwise
func Setup(env string) zerolog.Logger {
	logger := New(env, os.Stdout)
	log.Logger = logger
	return logger
}

// New builds a logger writing to w
func New(env string, w io.Writer) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	return zerolog.New(w).
		Level(zerolog.InfoLevel).
		With().Timestamp().Str("service", "carbonsense-backend").Logger()
}
