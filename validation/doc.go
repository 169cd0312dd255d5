// Package validation checks request payloads at the HTTP edge before they
// reach domain services. Failures come back as a single VALIDATION_ERROR
// whose validationErrors list every message that applied.
package validation
