package bootstrap

import (
	"time"

	"github.com/kbukum/fileflow/logger"
)

const defaultShutdownTimeout = 15 * time.Second

// Option adjusts an App before NewApp returns it.
type Option func(*settings)

type settings struct {
	log             *logger.Logger
	shutdownTimeout time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{shutdownTimeout: defaultShutdownTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger uses l instead of installing a global logger built from the
// config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithShutdownTimeout bounds the OnStop hooks together. Non-positive values
// keep the 15s default.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}
