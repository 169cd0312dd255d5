package authz

import (
	"github.com/kbukum/mddapi/auth/authctx"
	apperrors "github.com/kbukum/mddapi/errors"
)

// Owned is implemented by resources that have a single author.
type Owned interface {
	AuthorID() int64
}

// MayModify reports whether principal authored resource.
func MayModify(principal authctx.Principal, resource Owned) bool {
	return principal.ID != 0 && principal.ID == resource.AuthorID()
}

// RequireOwner returns UNAUTHORIZED_OPERATION unless principal authored
// resource. action completes the message "You are not allowed to <action>".
func RequireOwner(principal authctx.Principal, resource Owned, action string) error {
	if MayModify(principal, resource) {
		return nil
	}
	msg := ""
	if action != "" {
		msg = "You are not allowed to " + action
	}
	return apperrors.UnauthorizedOperation(msg)
}

// OwnedBy adapts a bare author id to Owned.
type OwnedBy int64

// AuthorID implements Owned.
func (o OwnedBy) AuthorID() int64 { return int64(o) }
