package jwt

import (
	"errors"
	"fmt"
	"time"
)

// MinSecretLength is the minimum HMAC secret size in bytes.
const MinSecretLength = 32

// DefaultExpiration is one day in milliseconds.
const DefaultExpiration int64 = 86_400_000

// Config configures the token codec.
type Config struct {
	// Secret is the HMAC-SHA256 signing key. Immutable after startup.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Expiration is the token lifetime in milliseconds.
	Expiration int64 `yaml:"expiration" mapstructure:"expiration"`
}

// ApplyDefaults fills in the default lifetime.
func (c *Config) ApplyDefaults() {
	if c.Expiration == 0 {
		c.Expiration = DefaultExpiration
	}
}

// Validate fails fast on a missing or short secret.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("jwt.secret must be at least %d bytes (got: %d)", MinSecretLength, len(c.Secret))
	}
	if c.Expiration < 1000 {
		return fmt.Errorf("jwt.expiration must be at least 1000 ms (got: %d)", c.Expiration)
	}
	return nil
}

// TTL returns the token lifetime.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Expiration) * time.Millisecond
}

// ExpiresInSeconds is the value reported to clients as expiresIn.
func (c *Config) ExpiresInSeconds() int64 {
	return c.Expiration / 1000
}
