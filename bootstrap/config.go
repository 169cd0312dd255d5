package bootstrap

import (
	"time"

	"github.com/kbukum/mddapi/config"
	"github.com/kbukum/mddapi/logger"
)

// Config is satisfied by any root config that embeds config.ServiceConfig
// and defines its own ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

// Option adjusts an App before it is returned by NewApp.
type Option func(*settings)

type settings struct {
	log             *logger.Logger
	shutdownTimeout time.Duration
}

// WithLogger replaces the logger built from the logging section.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithShutdownTimeout bounds the time components get to stop.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *settings) { s.shutdownTimeout = d }
}
