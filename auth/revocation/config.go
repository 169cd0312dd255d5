package revocation

import (
	"fmt"
	"time"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DefaultCleanupPeriod is the janitor tick.
const DefaultCleanupPeriod = time.Hour

// Config configures the revocation list.
type Config struct {
	// Backend is "memory" (default, per process) or "redis" (shared).
	Backend string `yaml:"backend" mapstructure:"backend"`
	// CleanupPeriod is the purge interval, e.g. "1h".
	CleanupPeriod string `yaml:"cleanup_period" mapstructure:"cleanup_period"`
	// KeyPrefix namespaces redis keys.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// ApplyDefaults sets the in-memory backend with an hourly purge.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.CleanupPeriod == "" {
		c.CleanupPeriod = DefaultCleanupPeriod.String()
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "mddapi:revoked"
	}
}

// Validate checks the backend name and period.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("revocation.backend must be one of [memory redis] (got: %q)", c.Backend)
	}
	d, err := time.ParseDuration(c.CleanupPeriod)
	if err != nil {
		return fmt.Errorf("invalid revocation.cleanup_period %q: %w", c.CleanupPeriod, err)
	}
	if d <= 0 {
		return fmt.Errorf("revocation.cleanup_period must be positive (got: %s)", d)
	}
	return nil
}

// Period returns the parsed cleanup period.
func (c *Config) Period() time.Duration {
	d, err := time.ParseDuration(c.CleanupPeriod)
	if err != nil || d <= 0 {
		return DefaultCleanupPeriod
	}
	return d
}
