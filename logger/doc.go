// Package logger provides structured logging on top of zerolog.
//
// Every component takes a child logger tagged with its name and logs
// messages with an optional map of fields:
//
//	log := logger.WithComponent("revocation")
//	log.Info("Purged expired tokens", logger.Fields("count", n))
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
package logger
