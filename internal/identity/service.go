package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/mddapi/auth/jwt"
	"github.com/kbukum/mddapi/auth/password"
	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/internal/user"
	"github.com/kbukum/mddapi/logger"
	"github.com/kbukum/mddapi/observability"
	"github.com/kbukum/mddapi/util"
	"github.com/kbukum/mddapi/validation"
)

// dummyPassword is hashed once at construction so unknown-email logins pay
// the same bcrypt cost as wrong-password logins.
const dummyPassword = "timing-equalizer-Pa55!"

// TokenIssuer signs tokens and reads their expiry.
type TokenIssuer interface {
	Sign(subject string, now time.Time) (string, *jwt.Claims, error)
	Expiry(token string) (time.Time, error)
}

// Revoker is the write side of the revocation store.
type Revoker interface {
	Revoke(ctx context.Context, token string, exp time.Time) error
}

// Service implements registration, login, logout and profile management.
// It is the only component that issues or retires tokens.
type Service struct {
	users     user.Store
	hasher    password.Hasher
	tokens    TokenIssuer
	revoker   Revoker
	expiresIn int64
	metrics   *observability.AuthMetrics
	log       *logger.Logger
	now       func() time.Time
	dummyHash string
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records login and revocation counters.
func WithMetrics(m *observability.AuthMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source used for token issuance.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService wires the auth service. expiresIn is the token lifetime in
// seconds reported to clients.
func NewService(users user.Store, hasher password.Hasher, tokens TokenIssuer, revoker Revoker, expiresIn int64, opts ...Option) (*Service, error) {
	s := &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		revoker:   revoker,
		expiresIn: expiresIn,
		log:       logger.GetGlobalLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("auth-service")

	hash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("identity: precompute dummy hash: %w", err)
	}
	s.dummyHash = hash
	return s, nil
}

// Register creates an account and returns a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRegister)
	defer span.End()

	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if exists {
		return nil, apperrors.UserAlreadyExists("Email is already in use")
	}
	exists, err = s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if exists {
		return nil, apperrors.UserAlreadyExists("Username is already in use")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &user.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return nil, apperrors.UserAlreadyExists("Email or username is already in use")
		}
		observability.SetSpanError(ctx, err)
		return nil, apperrors.Internal(err)
	}

	s.log.WithContext(ctx).Info("User registered", logger.Fields(
		logger.FieldUserID, u.ID,
		logger.FieldSubject, util.MaskSecret(u.Email, 3),
	))
	return s.issue(u)
}

// Login verifies credentials. Every failure yields the same
// INVALID_CREDENTIALS error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanLogin)
	defer span.End()

	email := normalizeEmail(req.Email)
	l := s.log.WithContext(ctx)

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		s.hasher.Verify(req.Password, s.dummyHash)
		s.metrics.RecordLogin(ctx, observability.LoginFailed)
		l.Info("Login rejected", logger.Fields(
			logger.FieldSubject, util.MaskSecret(email, 3),
			logger.FieldOutcome, observability.LoginFailed,
		))
		return nil, apperrors.InvalidCredentials()
	}
	if err != nil {
		s.metrics.RecordLogin(ctx, observability.LoginError)
		observability.SetSpanError(ctx, err)
		return nil, apperrors.Internal(err)
	}

	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		s.metrics.RecordLogin(ctx, observability.LoginFailed)
		l.Info("Login rejected", logger.Fields(
			logger.FieldSubject, util.MaskSecret(email, 3),
			logger.FieldOutcome, observability.LoginFailed,
		))
		return nil, apperrors.InvalidCredentials()
	}

	resp, err := s.issue(u)
	if err != nil {
		s.metrics.RecordLogin(ctx, observability.LoginError)
		return nil, err
	}
	s.metrics.RecordLogin(ctx, observability.LoginSucceeded)
	l.Info("User logged in", logger.Fields(
		logger.FieldUserID, u.ID,
		logger.FieldOutcome, observability.LoginSucceeded,
	))
	return resp, nil
}

// CurrentUser returns the account behind email.
func (s *Service) CurrentUser(ctx context.Context, email string) (*UserResponse, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, apperrors.UserNotFound(email)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	resp := NewUserResponse(u)
	return &resp, nil
}

// UpdateProfile applies the non-empty fields of req that differ from the
// stored values, in one transaction.
func (s *Service) UpdateProfile(ctx context.Context, currentEmail string, req UpdateProfileRequest) (*UserResponse, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanUpdateProfile)
	defer span.End()

	var updated *user.User
	err := s.users.Transaction(ctx, func(tx user.Store) error {
		u, err := tx.FindByEmail(ctx, currentEmail)
		if errors.Is(err, user.ErrNotFound) {
			return apperrors.UserNotFound(currentEmail)
		}
		if err != nil {
			return err
		}

		changed := false
		if username := strings.TrimSpace(req.Username); username != "" && username != u.Username {
			taken, err := tx.ExistsByUsername(ctx, username)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.UserAlreadyExists("Username already exists: " + username)
			}
			u.Username = username
			changed = true
		}
		if email := normalizeEmail(req.Email); email != "" && email != u.Email {
			taken, err := tx.ExistsByEmail(ctx, email)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.UserAlreadyExists("Email already exists: " + email)
			}
			u.Email = email
			changed = true
		}
		if pw := strings.TrimSpace(req.Password); pw != "" {
			hash, err := s.hashPassword(pw)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
			changed = true
		}

		if changed {
			if err := tx.Save(ctx, u); err != nil {
				return err
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return nil, apperrors.UserAlreadyExists("Email or username is already in use")
		}
		if _, ok := apperrors.AsAppError(err); !ok {
			observability.SetSpanError(ctx, err)
		}
		return nil, apperrors.Wrap(err)
	}

	s.log.WithContext(ctx).Info("Profile updated", logger.Fields(logger.FieldUserID, updated.ID))
	resp := NewUserResponse(updated)
	return &resp, nil
}

// Logout revokes token until its natural expiry. It is idempotent and accepts
// already-expired tokens; an empty token is a logged no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanLogout)
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		s.log.WithContext(ctx).Warn("Logout called with an empty token")
		return nil
	}

	exp, err := s.tokens.Expiry(token)
	if err != nil {
		s.log.WithContext(ctx).Warn("Logout with unreadable token", logger.Fields(logger.FieldReason, err.Error()))
		return apperrors.InvalidToken("")
	}

	// A completed revoke must not depend on the client staying connected.
	if err := s.revoker.Revoke(context.WithoutCancel(ctx), token, exp); err != nil {
		observability.SetSpanError(ctx, err)
		return apperrors.Internal(fmt.Errorf("revoke token: %w", err))
	}
	s.metrics.RecordRevoked(ctx)
	s.log.WithContext(ctx).Info("Token revoked", logger.Fields("expires_at", exp.UTC().Format(time.RFC3339)))
	return nil
}

// LogoutFromRequest extracts the bearer token from an Authorization header
// value and revokes it.
func (s *Service) LogoutFromRequest(ctx context.Context, authorization string) error {
	if !strings.HasPrefix(authorization, "Bearer ") {
		s.log.WithContext(ctx).Warn("Logout without a bearer authorization header")
		return apperrors.InvalidAuthorizationHeader()
	}
	return s.Logout(ctx, strings.TrimPrefix(authorization, "Bearer "))
}

func (s *Service) issue(u *user.User) (*AuthResponse, error) {
	token, _, err := s.tokens.Sign(u.Email, s.now())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &AuthResponse{
		Token:     token,
		TokenType: TokenType,
		Username:  u.Username,
		Email:     u.Email,
		ExpiresIn: s.expiresIn,
	}, nil
}

func (s *Service) hashPassword(plain string) (string, error) {
	hash, err := s.hasher.Hash(plain)
	if errors.Is(err, password.ErrTooLong) {
		return "", apperrors.Validation(validation.MsgPasswordTooLong)
	}
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return hash, nil
}
