package world

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Option func(w *World)

// WithLogger sets the logger used for structural world operations.
func WithLogger(logger *zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithPrettyLog writes human-readable logs to stderr.
func WithPrettyLog() Option {
	return func(w *World) {
		prettyLogger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		w.logger = &prettyLogger
	}
}

// WithInitialCapacity preallocates storage for n entities.
func WithInitialCapacity(n int) Option {
	return func(w *World) {
		w.capacity = n
	}
}
