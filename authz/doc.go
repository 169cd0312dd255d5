// Package authz holds the author-only authorization predicate that guards
// article and comment mutations.
//
//	if err := authz.RequireOwner(principal, article, "update this article"); err != nil {
//	    return err // 403 UNAUTHORIZED_OPERATION
//	}
package authz
