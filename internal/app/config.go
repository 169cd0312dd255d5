package app

import (
	"fmt"

	"github.com/kbukum/mddapi/auth/jwt"
	"github.com/kbukum/mddapi/auth/password"
	"github.com/kbukum/mddapi/auth/revocation"
	"github.com/kbukum/mddapi/config"
	"github.com/kbukum/mddapi/database"
	"github.com/kbukum/mddapi/observability"
	"github.com/kbukum/mddapi/redis"
	"github.com/kbukum/mddapi/server"
)

// Config is the root configuration of the mddapi service.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	JWT           jwt.Config           `yaml:"jwt" mapstructure:"jwt"`
	Password      password.Config      `yaml:"password" mapstructure:"password"`
	Revocation    revocation.Config    `yaml:"revocation" mapstructure:"revocation"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section with its defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "mddapi"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
	c.Revocation.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate fails fast on the first invalid section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	checks := []struct {
		section string
		fn      func() error
	}{
		{"server", c.Server.Validate},
		{"database", c.Database.Validate},
		{"redis", c.Redis.Validate},
		{"jwt", c.JWT.Validate},
		{"password", c.Password.Validate},
		{"revocation", c.Revocation.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.section, err)
		}
	}
	if c.Revocation.Backend == revocation.BackendRedis && !c.Redis.Enabled {
		return fmt.Errorf("revocation: backend %q requires redis.enabled", revocation.BackendRedis)
	}
	return nil
}
