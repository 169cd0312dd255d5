package feed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kbukum/mddapi/auth/authctx"
	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/logger"
)

// Service implements themes, articles, comments and subscriptions.
// Mutations of articles and comments are restricted to their author.
type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

// NewService creates the feed service.
func NewService(store Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Service{store: store, log: log.WithComponent("feed"), now: time.Now}
}

// --- Themes ---

func (s *Service) CreateTheme(ctx context.Context, req ThemeRequest) (*ThemeResponse, error) {
	name := strings.TrimSpace(req.Name)
	taken, err := s.store.ThemeNameTaken(ctx, name)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken {
		return nil, apperrors.ThemeAlreadyExists(name)
	}

	t := &Theme{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.store.CreateTheme(ctx, t); err != nil {
		return nil, s.themeWriteError(err, name)
	}
	s.log.WithContext(ctx).Info("Theme created", logger.Fields("theme_id", t.ID))
	resp := newThemeResponse(t)
	return &resp, nil
}

func (s *Service) ListThemes(ctx context.Context) ([]ThemeResponse, error) {
	themes, err := s.store.ListThemes(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	out := make([]ThemeResponse, 0, len(themes))
	for i := range themes {
		out = append(out, newThemeResponse(&themes[i]))
	}
	return out, nil
}

func (s *Service) GetTheme(ctx context.Context, id int64) (*ThemeResponse, error) {
	t, err := s.findTheme(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := newThemeResponse(t)
	return &resp, nil
}

func (s *Service) UpdateTheme(ctx context.Context, id int64, req ThemeRequest) (*ThemeResponse, error) {
	t, err := s.findTheme(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name != t.Name {
		taken, err := s.store.ThemeNameTaken(ctx, name)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if taken {
			return nil, apperrors.ThemeAlreadyExists(name)
		}
	}
	t.Name = name
	t.Description = strings.TrimSpace(req.Description)
	if err := s.store.SaveTheme(ctx, t); err != nil {
		return nil, s.themeWriteError(err, name)
	}
	s.log.WithContext(ctx).Info("Theme updated", logger.Fields("theme_id", t.ID))
	resp := newThemeResponse(t)
	return &resp, nil
}

// DeleteTheme removes a theme together with its articles and subscriptions.
func (s *Service) DeleteTheme(ctx context.Context, id int64) error {
	if err := s.store.DeleteTheme(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.ThemeNotFound(id)
		}
		return apperrors.Internal(err)
	}
	s.log.WithContext(ctx).Info("Theme deleted", logger.Fields("theme_id", id))
	return nil
}

func (s *Service) findTheme(ctx context.Context, id int64) (*Theme, error) {
	t, err := s.store.FindTheme(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperrors.ThemeNotFound(id)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return t, nil
}

func (s *Service) themeWriteError(err error, name string) error {
	if errors.Is(err, ErrDuplicate) {
		return apperrors.ThemeAlreadyExists(name)
	}
	return apperrors.Internal(err)
}

// --- Subscriptions ---

func (s *Service) Subscribe(ctx context.Context, p authctx.Principal, themeID int64) error {
	if err := s.subscribable(ctx, themeID); err != nil {
		return err
	}
	subscribed, err := s.store.IsSubscribed(ctx, p.ID, themeID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if subscribed {
		return apperrors.BadRequest("User is already subscribed to this theme")
	}
	err = s.store.Subscribe(ctx, &Subscription{UserID: p.ID, ThemeID: themeID, CreatedAt: s.now().UTC()})
	if errors.Is(err, ErrDuplicate) {
		return apperrors.BadRequest("User is already subscribed to this theme")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	s.log.WithContext(ctx).Info("Subscribed to theme", logger.Fields(logger.FieldUserID, p.ID, "theme_id", themeID))
	return nil
}

func (s *Service) Unsubscribe(ctx context.Context, p authctx.Principal, themeID int64) error {
	if err := s.subscribable(ctx, themeID); err != nil {
		return err
	}
	err := s.store.Unsubscribe(ctx, p.ID, themeID)
	if errors.Is(err, ErrNotFound) {
		return apperrors.BadRequest("User is not subscribed to this theme")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	s.log.WithContext(ctx).Info("Unsubscribed from theme", logger.Fields(logger.FieldUserID, p.ID, "theme_id", themeID))
	return nil
}

// Subscriptions returns the ids of the themes p follows.
func (s *Service) Subscriptions(ctx context.Context, p authctx.Principal) ([]int64, error) {
	ids, err := s.store.SubscribedThemeIDs(ctx, p.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return ids, nil
}

// subscribable reports a missing theme as BAD_REQUEST rather than THEME_NOT_FOUND.
func (s *Service) subscribable(ctx context.Context, themeID int64) error {
	_, err := s.store.FindTheme(ctx, themeID)
	if errors.Is(err, ErrNotFound) {
		return apperrors.BadRequest("Theme not found with ID: " + itoa(themeID))
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
