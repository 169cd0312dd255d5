package validation

import (
	"strings"
	"unicode"
)

const (
	// PasswordMinLength is the minimum password length in characters.
	PasswordMinLength = 8
	// PasswordMaxBytes is the bcrypt input limit.
	PasswordMaxBytes = 72
	// PasswordSpecials lists the accepted special characters.
	PasswordSpecials = "@#$%^&+=!?.,:;()[]{}|-_~`"
)

// Password policy messages.
const (
	MsgPasswordPolicy   = "Password must be at least 8 characters long and contain an uppercase letter, a lowercase letter, a digit and a special character"
	MsgPasswordTooLong  = "Password must be at most 72 bytes long"
	MsgPasswordNoSpaces = "Password must not contain whitespace"
)

// CheckPassword returns the first policy message that password violates, or "".
func CheckPassword(password string) string {
	if len(password) > PasswordMaxBytes {
		return MsgPasswordTooLong
	}
	if strings.IndexFunc(password, unicode.IsSpace) >= 0 {
		return MsgPasswordNoSpaces
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}
	if len([]rune(password)) < PasswordMinLength || !lower || !upper || !digit || !special {
		return MsgPasswordPolicy
	}
	return ""
}

// IsValidPassword reports whether password satisfies the policy.
func IsValidPassword(password string) bool {
	return CheckPassword(password) == ""
}
