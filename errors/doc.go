// Package errors provides the application error type shared by every layer
// of the service. Domain code returns *AppError values; the HTTP server is the
// single place that translates them into the JSON error envelope.
package errors
