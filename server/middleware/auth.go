package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mddapi/auth"
	"github.com/kbukum/mddapi/auth/authctx"
	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/logger"
	"github.com/kbukum/mddapi/util"
)

// BearerPrefix is the scheme prefix of the Authorization header.
const BearerPrefix = "Bearer "

// Gate outcomes, logged under logger.FieldOutcome.
const (
	OutcomeAnonymous  = "anonymous"
	OutcomeMalformed  = "malformed"
	OutcomeRevoked    = "revoked"
	OutcomeStoreError = "store_error"
	OutcomeUnknown    = "unknown_subject"
	OutcomeStale      = "stale_token"
	OutcomeAdmitted   = "admitted"
)

// Messages used by RequireAuth.
const (
	MsgAccessDenied = "Access denied. Please provide a valid authentication token."
	MsgInvalidToken = "Invalid token"
)

// GateConfig wires the collaborators of the authentication gate.
type GateConfig struct {
	Parser      auth.TokenParser
	Revocations auth.RevocationChecker
	Resolver    auth.PrincipalResolver
	Log         *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Gate inspects the bearer token of each request and, when it is valid,
// not revoked and bound to an existing user, installs the caller's principal
// into the request context. It never writes a response: requests that fail
// any check continue unauthenticated and are rejected by RequireAuth on
// protected routes.
func Gate(cfg GateConfig) gin.HandlerFunc {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Log
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("auth-gate")

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, BearerPrefix) {
			log.WithContext(c.Request.Context()).Debug("No bearer token", logger.Fields(
				logger.FieldOutcome, OutcomeAnonymous,
			))
			c.Next()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		ctx := c.Request.Context()
		l := log.WithContext(ctx)

		claims, err := cfg.Parser.Parse(token, now())
		if err != nil {
			l.Warn("Bearer token rejected", logger.Fields(
				logger.FieldOutcome, OutcomeMalformed,
				logger.FieldReason, err.Error(),
			))
			c.Next()
			return
		}
		subject := util.MaskSecret(claims.Subject, 3)

		revoked, err := cfg.Revocations.IsRevoked(ctx, token)
		if err != nil {
			l.Error("Revocation lookup failed", logger.Fields(
				logger.FieldOutcome, OutcomeStoreError,
				logger.FieldSubject, subject,
				logger.FieldError, err.Error(),
			))
			c.Next()
			return
		}
		if revoked {
			l.Info("Revoked token presented", logger.Fields(
				logger.FieldOutcome, OutcomeRevoked,
				logger.FieldSubject, subject,
			))
			c.Next()
			return
		}

		principal, err := cfg.Resolver.Resolve(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, auth.ErrPrincipalNotFound) {
				l.Info("Token subject has no account", logger.Fields(
					logger.FieldOutcome, OutcomeUnknown,
					logger.FieldSubject, subject,
				))
			} else {
				l.Error("Principal lookup failed", logger.Fields(
					logger.FieldOutcome, OutcomeUnknown,
					logger.FieldSubject, subject,
					logger.FieldError, err.Error(),
				))
			}
			c.Next()
			return
		}

		if claims.IssuedAtTime().Unix() < principal.CreatedAt.Unix() {
			l.Warn("Token predates account", logger.Fields(
				logger.FieldOutcome, OutcomeStale,
				logger.FieldSubject, subject,
			))
			c.Next()
			return
		}

		l.Debug("Principal installed", logger.Fields(
			logger.FieldOutcome, OutcomeAdmitted,
			logger.FieldSubject, subject,
		))
		c.Request = c.Request.WithContext(authctx.WithPrincipal(ctx, principal))
		c.Next()
	}
}

// RequireAuth aborts with 401 INVALID_TOKEN unless the gate installed a principal.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authctx.PrincipalFrom(c.Request.Context()); ok {
			c.Next()
			return
		}
		msg := MsgInvalidToken
		if c.GetHeader("Authorization") == "" {
			msg = MsgAccessDenied
		}
		abortWithError(c, apperrors.InvalidToken(msg))
	}
}

// abortWithError stops the gin chain with the JSON error envelope.
func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse(c.Request.URL.Path, time.Now()))
}
