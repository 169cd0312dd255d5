package feed

import (
	"context"
	"errors"
	"strings"

	"github.com/kbukum/mddapi/auth/authctx"
	"github.com/kbukum/mddapi/authz"
	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/logger"
)

func (s *Service) CreateArticle(ctx context.Context, p authctx.Principal, req ArticleRequest) (*ArticleResponse, error) {
	if _, err := s.findTheme(ctx, req.ThemeID); err != nil {
		return nil, err
	}
	a := &Article{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		CreatedBy: p.ID,
		ThemeID:   req.ThemeID,
	}
	if err := s.store.CreateArticle(ctx, a); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.log.WithContext(ctx).Info("Article created", logger.Fields(logger.FieldUserID, p.ID, "article_id", a.ID))
	return s.GetArticle(ctx, a.ID)
}

// ListArticles returns articles newest first.
func (s *Service) ListArticles(ctx context.Context, f ArticleFilter) ([]ArticleResponse, error) {
	if f.ThemeID != 0 {
		if _, err := s.findTheme(ctx, f.ThemeID); err != nil {
			return nil, err
		}
	}
	articles, err := s.store.ListArticles(ctx, f)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	ids := make([]int64, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	counts, err := s.store.CountComments(ctx, ids...)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	out := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		out = append(out, newArticleResponse(&articles[i], counts[articles[i].ID]))
	}
	return out, nil
}

func (s *Service) GetArticle(ctx context.Context, id int64) (*ArticleResponse, error) {
	a, err := s.findArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.CountComments(ctx, a.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	resp := newArticleResponse(a, counts[a.ID])
	return &resp, nil
}

// UpdateArticle replaces title, content and theme. Only the author may update.
func (s *Service) UpdateArticle(ctx context.Context, p authctx.Principal, id int64, req ArticleRequest) (*ArticleResponse, error) {
	a, err := s.findArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(p, a, "update this article"); err != nil {
		s.denied(ctx, p, "article", id)
		return nil, err
	}
	if _, err := s.findTheme(ctx, req.ThemeID); err != nil {
		return nil, err
	}
	a.Title = strings.TrimSpace(req.Title)
	a.Content = req.Content
	a.ThemeID = req.ThemeID
	if err := s.store.SaveArticle(ctx, a); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.log.WithContext(ctx).Info("Article updated", logger.Fields(logger.FieldUserID, p.ID, "article_id", id))
	return s.GetArticle(ctx, id)
}

// DeleteArticle removes the article and its comments. Only the author may delete.
func (s *Service) DeleteArticle(ctx context.Context, p authctx.Principal, id int64) error {
	a, err := s.findArticle(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(p, a, "delete this article"); err != nil {
		s.denied(ctx, p, "article", id)
		return err
	}
	if err := s.store.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.ArticleNotFound(id)
		}
		return apperrors.Internal(err)
	}
	s.log.WithContext(ctx).Info("Article deleted", logger.Fields(logger.FieldUserID, p.ID, "article_id", id))
	return nil
}

func (s *Service) findArticle(ctx context.Context, id int64) (*Article, error) {
	a, err := s.store.FindArticle(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperrors.ArticleNotFound(id)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return a, nil
}

func (s *Service) denied(ctx context.Context, p authctx.Principal, kind string, id int64) {
	s.log.WithContext(ctx).Warn("Modification refused", logger.Fields(
		logger.FieldUserID, p.ID,
		logger.FieldReason, "not_author",
		kind+"_id", id,
	))
}
