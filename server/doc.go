// Package server provides the HTTP server: Gin behind a net/http middleware
// chain, served with h2c so HTTP/2 works without TLS.
//
// # Middleware
//
// Transport chain (server/middleware), outermost first:
//
//   - Recovery: panic recovery with a JSON error envelope
//   - RequestID: X-Request-Id generation and propagation
//   - RequestLogger: request logging by status class
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: request body size limits
//
// Gin middleware: Tracing (one server span per request), Gate (bearer token
// to principal) and RequireAuth (per route group).
//
// # Endpoints
//
// Built-in endpoints (server/endpoint): /health, /alive, /ready and /info.
//
// # Responses
//
// Handlers return errors and call RespondWithError, which renders
// *errors.AppError values and hides everything else behind a generic 500.
package server
