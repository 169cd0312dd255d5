package feed

import (
	"strings"
	"time"

	"github.com/kbukum/mddapi/validation"
)

// ThemeRequest is the body of theme create and update.
type ThemeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *ThemeRequest) Validate() error {
	return validation.New().
		Required(r.Name, "Name is mandatory").
		MaxLength(strings.TrimSpace(r.Name), 100, "Name must not exceed 100 characters").
		MaxLength(r.Description, 500, "Description must not exceed 500 characters").
		Validate()
}

// ArticleRequest is the body of article create and update.
type ArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	ThemeID int64  `json:"themeId"`
}

func (r *ArticleRequest) Validate() error {
	return validation.New().
		Required(r.Title, "Title is mandatory").
		MaxLength(strings.TrimSpace(r.Title), 200, "Title must not exceed 200 characters").
		Required(r.Content, "Content is mandatory").
		RequiredID(r.ThemeID, "Theme ID is mandatory").
		Validate()
}

// CommentRequest is the body of comment create.
type CommentRequest struct {
	Content   string `json:"content"`
	ArticleID int64  `json:"articleId"`
}

func (r *CommentRequest) Validate() error {
	return validation.New().
		Required(r.Content, "Content is mandatory").
		RequiredID(r.ArticleID, "Article ID is mandatory").
		Validate()
}

type ThemeResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newThemeResponse(t *Theme) ThemeResponse {
	return ThemeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

type ArticleResponse struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	AuthorUsername string        `json:"authorUsername"`
	Theme          ThemeResponse `json:"theme"`
	CommentsCount  int           `json:"commentsCount"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func newArticleResponse(a *Article, comments int) ArticleResponse {
	return ArticleResponse{
		ID:             a.ID,
		Title:          a.Title,
		Content:        a.Content,
		AuthorUsername: a.Author.Username,
		Theme:          newThemeResponse(&a.Theme),
		CommentsCount:  comments,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}
}

type CommentResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	ArticleID int64     `json:"articleId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		Username:  c.Author.Username,
		ArticleID: c.ArticleID,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}
