package identity

import (
	"strings"
	"time"

	"github.com/kbukum/mddapi/internal/user"
	"github.com/kbukum/mddapi/validation"
)

// TokenType is the scheme reported in AuthResponse.
const TokenType = "Bearer"

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the registration fields and the password policy.
func (r *RegisterRequest) Validate() error {
	return validation.New().
		Required(r.Email, "Email is required").
		Email(strings.TrimSpace(r.Email), "Email must be valid").
		Required(r.Username, "Username is required").
		Length(strings.TrimSpace(r.Username), 3, 50, "Username must be between 3 and 50 characters").
		Required(r.Password, "Password is required").
		Password(r.Password).
		Validate()
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks presence only; the policy is never revealed at login.
func (r *LoginRequest) Validate() error {
	return validation.New().
		Required(r.Email, "Email is required").
		Email(strings.TrimSpace(r.Email), "Email should be valid").
		Required(r.Password, "Password is required").
		Validate()
}

// UpdateProfileRequest is the body of PUT /api/auth/update-profile. Empty
// fields are left unchanged.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks each supplied field independently.
func (r *UpdateProfileRequest) Validate() error {
	return validation.New().
		Length(strings.TrimSpace(r.Username), 3, 50, "Username must be between 3 and 50 characters").
		Email(strings.TrimSpace(r.Email), "Email must be valid").
		Password(r.Password).
		Validate()
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	ExpiresIn int64  `json:"expiresIn"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse projects u with UTC timestamps.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

// normalizeEmail trims and lowercases an address before storage or lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
