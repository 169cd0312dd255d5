// Package identity implements account registration, login, logout and
// profile management on top of the user store, the password hasher, the
// token codec and the revocation store.
//
// Login never distinguishes an unknown email from a wrong password: both
// paths run one bcrypt comparison and return INVALID_CREDENTIALS. Logout
// revokes the presented token until its own expiry, so a token that was
// revoked can never be admitted again even though it still verifies.
package identity
