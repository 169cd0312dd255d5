package auth

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/mddapi/auth/authctx"
	"github.com/kbukum/mddapi/auth/jwt"
)

// ErrPrincipalNotFound is returned by a PrincipalResolver for unknown subjects.
var ErrPrincipalNotFound = errors.New("auth: principal not found")

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string, now time.Time) (*jwt.Claims, error)
}

// RevocationChecker answers whether a token has been revoked. It is the
// read-only view of a revocation store.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// PrincipalResolver maps a token subject (an email) to the caller's identity.
type PrincipalResolver interface {
	Resolve(ctx context.Context, email string) (authctx.Principal, error)
}

// PrincipalResolverFunc adapts an ordinary function to PrincipalResolver.
type PrincipalResolverFunc func(ctx context.Context, email string) (authctx.Principal, error)

// Resolve implements PrincipalResolver.
func (f PrincipalResolverFunc) Resolve(ctx context.Context, email string) (authctx.Principal, error) {
	return f(ctx, email)
}

// RevocationCheckerFunc adapts an ordinary function to RevocationChecker.
type RevocationCheckerFunc func(ctx context.Context, token string) (bool, error)

// IsRevoked implements RevocationChecker.
func (f RevocationCheckerFunc) IsRevoked(ctx context.Context, token string) (bool, error) {
	return f(ctx, token)
}
