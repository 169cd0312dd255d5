// Package security holds the TLS settings for outbound connections.
//
//	cfg := security.TLSConfig{CAFile: "/etc/ssl/redis-ca.pem"}
//	tlsCfg, err := cfg.Build() // nil when TLS is off
package security
