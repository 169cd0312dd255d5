// Package user owns the account record: its gorm model, the repository
// behind it and the resolver the authentication gate uses to turn a token
// subject into a principal.
package user

import (
	"errors"
	"time"

	"github.com/kbukum/mddapi/auth/authctx"
)

var (
	// ErrNotFound is returned when no user matches a lookup.
	ErrNotFound = errors.New("user: not found")
	// ErrDuplicate is returned when an email or username is already taken.
	ErrDuplicate = errors.New("user: email or username already exists")
)

// User is a registered account. Email is stored lowercase and both email
// and username are unique.
type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	Username     string    `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName pins the table created by the migrations.
func (User) TableName() string { return "users" }

// Principal projects the user onto the request identity.
func (u *User) Principal() authctx.Principal {
	return authctx.Principal{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
