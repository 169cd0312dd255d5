package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/mddapi/database"
)

// ArticleFilter narrows ListArticles. Zero fields are ignored.
type ArticleFilter struct {
	AuthorID int64
	ThemeID  int64
	Keyword  string
}

// Store defines persistence for themes, articles, comments and subscriptions.
type Store interface {
	ListThemes(ctx context.Context) ([]Theme, error)
	FindTheme(ctx context.Context, id int64) (*Theme, error)
	ThemeNameTaken(ctx context.Context, name string) (bool, error)
	CreateTheme(ctx context.Context, t *Theme) error
	SaveTheme(ctx context.Context, t *Theme) error
	DeleteTheme(ctx context.Context, id int64) error

	ListArticles(ctx context.Context, f ArticleFilter) ([]Article, error)
	FindArticle(ctx context.Context, id int64) (*Article, error)
	CreateArticle(ctx context.Context, a *Article) error
	SaveArticle(ctx context.Context, a *Article) error
	DeleteArticle(ctx context.Context, id int64) error
	CountComments(ctx context.Context, articleIDs ...int64) (map[int64]int, error)

	ListCommentsByArticle(ctx context.Context, articleID int64) ([]Comment, error)
	ListCommentsByAuthor(ctx context.Context, authorID int64) ([]Comment, error)
	FindComment(ctx context.Context, id int64) (*Comment, error)
	CreateComment(ctx context.Context, c *Comment) error
	DeleteComment(ctx context.Context, id int64) error

	IsSubscribed(ctx context.Context, userID, themeID int64) (bool, error)
	Subscribe(ctx context.Context, s *Subscription) error
	Unsubscribe(ctx context.Context, userID, themeID int64) error
	SubscribedThemeIDs(ctx context.Context, userID int64) ([]int64, error)
}

var _ Store = (*Repository)(nil)

// Repository is the gorm-backed Store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on top of an open database.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db.GormDB}
}

// --- Themes ---

func (r *Repository) ListThemes(ctx context.Context) ([]Theme, error) {
	var themes []Theme
	if err := r.db.WithContext(ctx).Order("id").Find(&themes).Error; err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	return themes, nil
}

func (r *Repository) FindTheme(ctx context.Context, id int64) (*Theme, error) {
	var t Theme
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, "theme")
	}
	return &t, nil
}

func (r *Repository) ThemeNameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Theme{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check theme name: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) CreateTheme(ctx context.Context, t *Theme) error {
	return write(r.db.WithContext(ctx).Create(t).Error, "create theme")
}

func (r *Repository) SaveTheme(ctx context.Context, t *Theme) error {
	return write(r.db.WithContext(ctx).Save(t).Error, "save theme")
}

// DeleteTheme removes the theme; its articles and subscriptions cascade.
func (r *Repository) DeleteTheme(ctx context.Context, id int64) error {
	return deleted(r.db.WithContext(ctx).Delete(&Theme{}, id), "theme")
}

// --- Articles ---

// ListArticles returns matching articles newest first, with author and theme loaded.
func (r *Repository) ListArticles(ctx context.Context, f ArticleFilter) ([]Article, error) {
	q := r.db.WithContext(ctx).Preload("Author").Preload("Theme")
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.ThemeID != 0 {
		q = q.Where("theme_id = ?", f.ThemeID)
	}
	if f.Keyword != "" {
		pattern := "%" + escapeLike(f.Keyword) + "%"
		q = q.Where(`(title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var articles []Article
	if err := q.Order("created_at DESC").Order("id DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

func (r *Repository) FindArticle(ctx context.Context, id int64) (*Article, error) {
	var a Article
	if err := r.db.WithContext(ctx).Preload("Author").Preload("Theme").First(&a, id).Error; err != nil {
		return nil, notFound(err, "article")
	}
	return &a, nil
}

func (r *Repository) CreateArticle(ctx context.Context, a *Article) error {
	return write(r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error, "create article")
}

func (r *Repository) SaveArticle(ctx context.Context, a *Article) error {
	return write(r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error, "save article")
}

// DeleteArticle removes the article; its comments cascade.
func (r *Repository) DeleteArticle(ctx context.Context, id int64) error {
	return deleted(r.db.WithContext(ctx).Delete(&Article{}, id), "article")
}

// CountComments returns the number of comments per article id. Articles
// without comments are absent from the map.
func (r *Repository) CountComments(ctx context.Context, articleIDs ...int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(articleIDs))
	if len(articleIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ArticleID int64
		Total     int
	}
	err := r.db.WithContext(ctx).Model(&Comment{}).
		Select("article_id, COUNT(*) AS total").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	for _, row := range rows {
		counts[row.ArticleID] = row.Total
	}
	return counts, nil
}

// --- Comments ---

// ListCommentsByArticle returns comments oldest first.
func (r *Repository) ListCommentsByArticle(ctx context.Context, articleID int64) ([]Comment, error) {
	return r.listComments(ctx, "article_id = ?", articleID)
}

func (r *Repository) ListCommentsByAuthor(ctx context.Context, authorID int64) ([]Comment, error) {
	return r.listComments(ctx, "author_id = ?", authorID)
}

func (r *Repository) listComments(ctx context.Context, query string, arg int64) ([]Comment, error) {
	var comments []Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where(query, arg).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *Repository) FindComment(ctx context.Context, id int64) (*Comment, error) {
	var c Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&c, id).Error; err != nil {
		return nil, notFound(err, "comment")
	}
	return &c, nil
}

func (r *Repository) CreateComment(ctx context.Context, c *Comment) error {
	return write(r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error, "create comment")
}

func (r *Repository) DeleteComment(ctx context.Context, id int64) error {
	return deleted(r.db.WithContext(ctx).Delete(&Comment{}, id), "comment")
}

// --- Subscriptions ---

func (r *Repository) IsSubscribed(ctx context.Context, userID, themeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Subscription{}).
		Where("user_id = ? AND theme_id = ?", userID, themeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) Subscribe(ctx context.Context, s *Subscription) error {
	return write(r.db.WithContext(ctx).Create(s).Error, "create subscription")
}

func (r *Repository) Unsubscribe(ctx context.Context, userID, themeID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND theme_id = ?", userID, themeID).
		Delete(&Subscription{})
	return deleted(res, "subscription")
}

func (r *Repository) SubscribedThemeIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).Model(&Subscription{}).
		Where("user_id = ?", userID).
		Order("theme_id").
		Pluck("theme_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return ids, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}

func write(err error, op string) error {
	if err == nil {
		return nil
	}
	if database.IsDuplicateError(err) {
		return ErrDuplicate
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func deleted(res *gorm.DB, what string) error {
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", what, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
