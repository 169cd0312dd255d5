package feed

import (
	"context"
	"errors"
	"strconv"

	"github.com/kbukum/mddapi/auth/authctx"
	"github.com/kbukum/mddapi/authz"
	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/logger"
)

func (s *Service) CreateComment(ctx context.Context, p authctx.Principal, req CommentRequest) (*CommentResponse, error) {
	if _, err := s.findArticle(ctx, req.ArticleID); err != nil {
		return nil, err
	}
	c := &Comment{Content: req.Content, CreatedBy: p.ID, ArticleID: req.ArticleID}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.log.WithContext(ctx).Info("Comment created", logger.Fields(logger.FieldUserID, p.ID, "comment_id", c.ID))
	return s.GetComment(ctx, c.ID)
}

// CommentsByArticle returns an article's comments oldest first.
func (s *Service) CommentsByArticle(ctx context.Context, articleID int64) ([]CommentResponse, error) {
	if _, err := s.findArticle(ctx, articleID); err != nil {
		return nil, err
	}
	comments, err := s.store.ListCommentsByArticle(ctx, articleID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return commentResponses(comments), nil
}

func (s *Service) CommentsByAuthor(ctx context.Context, p authctx.Principal) ([]CommentResponse, error) {
	comments, err := s.store.ListCommentsByAuthor(ctx, p.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return commentResponses(comments), nil
}

func (s *Service) GetComment(ctx context.Context, id int64) (*CommentResponse, error) {
	c, err := s.findComment(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := newCommentResponse(c)
	return &resp, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *Service) DeleteComment(ctx context.Context, p authctx.Principal, id int64) error {
	c, err := s.findComment(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(p, c, "delete this comment"); err != nil {
		s.denied(ctx, p, "comment", id)
		return err
	}
	if err := s.store.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.CommentNotFound(id)
		}
		return apperrors.Internal(err)
	}
	s.log.WithContext(ctx).Info("Comment deleted", logger.Fields(logger.FieldUserID, p.ID, "comment_id", id))
	return nil
}

func (s *Service) findComment(ctx context.Context, id int64) (*Comment, error) {
	c, err := s.store.FindComment(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperrors.CommentNotFound(id)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return c, nil
}

func commentResponses(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentResponse(&comments[i]))
	}
	return out
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
