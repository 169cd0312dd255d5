// Package jwt signs and parses the service's bearer tokens.
//
// Tokens are compact HS256 JWTs carrying {sub, iat, exp, jti}. The subject is
// the user's email. Parsing is fail-closed: every problem maps to one of
// ErrMalformed, ErrBadSignature or ErrExpired.
//
//	codec, err := jwt.NewCodec(cfg)
//	token, claims, err := codec.Sign("a@b.c", time.Now())
//	claims, err = codec.Parse(token, time.Now())
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Parse failures.
var (
	ErrMalformed    = errors.New("jwt: malformed token")
	ErrBadSignature = errors.New("jwt: bad signature")
	ErrExpired      = errors.New("jwt: token expired")
)

// Claims is the token payload.
type Claims struct {
	gojwt.RegisteredClaims
}

// IssuedAtTime returns iat, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns exp, or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Codec issues and verifies tokens with a single symmetric key.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec validates cfg and builds a codec.
func NewCodec(cfg *Config) (*Codec, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	key := make([]byte, len(cfg.Secret))
	copy(key, cfg.Secret)
	return &Codec{key: key, ttl: cfg.TTL()}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Sign issues a token for subject valid from now until now+TTL.
func (c *Codec) Sign(subject string, now time.Time) (string, *Claims, error) {
	iat := now.UTC().Truncate(time.Second)
	claims := &Claims{RegisteredClaims: gojwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  gojwt.NewNumericDate(iat),
		ExpiresAt: gojwt.NewNumericDate(iat.Add(c.ttl)),
		ID:        uuid.NewString(),
	}}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", nil, fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies the signature and expiry of token as of now.
func (c *Codec) Parse(token string, now time.Time) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMalformed
	}
	claims := &Claims{}
	_, err := gojwt.ParseWithClaims(token, claims, c.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(func() time.Time { return now }),
		gojwt.WithExpirationRequired(),
		gojwt.WithStrictDecoding(),
	)
	if err != nil {
		return nil, classify(err)
	}
	if claims.Subject == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Expiry verifies the signature and returns exp without rejecting expired tokens.
func (c *Codec) Expiry(token string) (time.Time, error) {
	if strings.TrimSpace(token) == "" {
		return time.Time{}, ErrMalformed
	}
	claims := &Claims{}
	_, err := gojwt.ParseWithClaims(token, claims, c.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithoutClaimsValidation(),
		gojwt.WithStrictDecoding(),
	)
	if err != nil {
		return time.Time{}, classify(err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrMalformed
	}
	return claims.ExpiresAt.Time, nil
}

func (c *Codec) keyFunc(*gojwt.Token) (interface{}, error) {
	return c.key, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	default:
		return ErrMalformed
	}
}
