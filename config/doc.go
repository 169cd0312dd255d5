// Package config loads service configuration with viper.
//
// Values come from config.yml (searched under ./cmd/<service>/, ./config/
// and the working directory), then an optional .env file, then the process
// environment. Environment keys map onto nested keys by underscore, so
// JWT_SECRET sets jwt.secret.
//
// # Usage
//
//	cfg, err := config.Load[app.Config]("mddapi")
package config
