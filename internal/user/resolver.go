package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/mddapi/auth"
	"github.com/kbukum/mddapi/auth/authctx"
)

var _ auth.PrincipalResolver = (*Resolver)(nil)

// Resolver maps a token subject to the caller's identity. It reads the
// store on every call so profile changes are seen immediately.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver over store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks the user up by email. A missing user yields an error
// matching both ErrNotFound and auth.ErrPrincipalNotFound.
func (r *Resolver) Resolve(ctx context.Context, email string) (authctx.Principal, error) {
	u, err := r.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return authctx.Principal{}, fmt.Errorf("%w: %w", auth.ErrPrincipalNotFound, ErrNotFound)
	}
	if err != nil {
		return authctx.Principal{}, err
	}
	return u.Principal(), nil
}
