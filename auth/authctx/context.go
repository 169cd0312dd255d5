// Package authctx carries the authenticated principal through a request.
//
// The authentication gate installs the principal; handlers read it back:
//
//	ctx = authctx.WithPrincipal(ctx, p)
//	p, ok := authctx.PrincipalFrom(ctx)
package authctx

import (
	"context"
	"errors"
	"time"
)

// Principal is the normalized identity of the caller.
type Principal struct {
	ID        int64
	Email     string
	Username  string
	CreatedAt time.Time
}

type contextKey struct{}

var principalKey = contextKey{}

// ErrNoPrincipal is returned when the request carries no authenticated principal.
var ErrNoPrincipal = errors.New("authctx: no principal in context")

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the principal installed in ctx.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// RequirePrincipal returns the principal or ErrNoPrincipal.
func RequirePrincipal(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return Principal{}, ErrNoPrincipal
	}
	return p, nil
}
