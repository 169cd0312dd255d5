// Package util holds small helpers shared across packages: size and
// duration parsing, secret masking for logs, and slice mapping.
package util
