// Package auth holds the contracts the authentication gate depends on.
//
// Subpackages provide the implementations:
//
//   - auth/jwt        token codec (sign, parse, expiry)
//   - auth/password   bcrypt hasher
//   - auth/revocation revoked-token stores and their purge janitor
//   - auth/authctx    request-scoped principal
//
// The gate only sees the narrow interfaces declared here, so it can read the
// revocation store but never write to it.
package auth
