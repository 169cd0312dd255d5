package feed

import (
	"errors"
	"time"

	"github.com/kbukum/mddapi/internal/user"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("feed: not found")
	// ErrDuplicate is returned on a unique constraint violation.
	ErrDuplicate = errors.New("feed: duplicate")
)

// Theme is a topic that articles are filed under and users subscribe to.
type Theme struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null;uniqueIndex"`
	Description string    `gorm:"size:500;not null;default:''"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (Theme) TableName() string { return "themes" }

// Article is a post written by one user under one theme.
type Article struct {
	ID        int64     `gorm:"primaryKey"`
	Title     string    `gorm:"size:200;not null"`
	Content   string    `gorm:"not null"`
	CreatedBy int64     `gorm:"column:author_id;not null;index"`
	ThemeID   int64     `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Author user.User `gorm:"foreignKey:CreatedBy"`
	Theme  Theme     `gorm:"foreignKey:ThemeID"`
}

func (Article) TableName() string { return "articles" }

// AuthorID identifies the user allowed to modify the article.
func (a *Article) AuthorID() int64 { return a.CreatedBy }

// Comment is a reply to an article.
type Comment struct {
	ID        int64     `gorm:"primaryKey"`
	Content   string    `gorm:"not null"`
	CreatedBy int64     `gorm:"column:author_id;not null"`
	ArticleID int64     `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Author user.User `gorm:"foreignKey:CreatedBy"`
}

func (Comment) TableName() string { return "comments" }

// AuthorID identifies the user allowed to delete the comment.
func (c *Comment) AuthorID() int64 { return c.CreatedBy }

// Subscription links a user to a theme they follow.
type Subscription struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	ThemeID   int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Subscription) TableName() string { return "subscriptions" }
