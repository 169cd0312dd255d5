package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kbukum/mddapi/database"
)

// Store defines persistence operations for users.
type Store interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	// Transaction runs fn against a Store bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

var _ Store = (*Repository)(nil)

// Repository is the gorm-backed Store.
type Repository struct {
	db    *gorm.DB
	runTx func(ctx context.Context, fn database.TransactionFunc) error
}

// NewRepository creates a repository on top of an open database.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db.GormDB, runTx: db.WithTransaction}
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByEmail matches the stored value exactly.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

// Create inserts u and fills in its ID and timestamps.
func (r *Repository) Create(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if database.IsDuplicateError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Save writes every column of u and refreshes UpdatedAt.
func (r *Repository) Save(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		if database.IsDuplicateError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Transaction runs fn inside a transaction. Nested calls reuse the
// enclosing transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return r.runTx(ctx, func(tx *gorm.DB) error {
		return fn(&Repository{
			db:    tx,
			runTx: func(_ context.Context, inner database.TransactionFunc) error { return inner(tx) },
		})
	})
}

func (r *Repository) first(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *Repository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
