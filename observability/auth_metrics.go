package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Login outcomes recorded on mddapi.auth.login.attempts.
const (
	LoginSucceeded = "success"
	LoginFailed    = "invalid_credentials"
	LoginError     = "error"
)

// SizeFunc reports the current revocation store size.
type SizeFunc func(ctx context.Context) (int, error)

// AuthMetrics holds the authentication instruments.
type AuthMetrics struct {
	loginAttempts metric.Int64Counter
	revoked       metric.Int64Counter
	purged        metric.Int64Counter
}

// NewAuthMetrics creates the auth instruments on meter. When size is non-nil
// the revocation store size is exported as an observable gauge.
func NewAuthMetrics(meter metric.Meter, size SizeFunc) (*AuthMetrics, error) {
	loginAttempts, err := meter.Int64Counter("mddapi.auth.login.attempts",
		metric.WithDescription("Login attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating login attempts counter: %w", err)
	}
	revoked, err := meter.Int64Counter("mddapi.auth.tokens.revoked",
		metric.WithDescription("Tokens revoked by logout"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating revoked tokens counter: %w", err)
	}
	purged, err := meter.Int64Counter("mddapi.auth.revocations.purged",
		metric.WithDescription("Expired revocation entries removed by the janitor"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating purged counter: %w", err)
	}

	m := &AuthMetrics{loginAttempts: loginAttempts, revoked: revoked, purged: purged}
	if size == nil {
		return m, nil
	}

	gauge, err := meter.Int64ObservableGauge("mddapi.auth.revocations.size",
		metric.WithDescription("Entries currently held by the revocation store"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating revocation size gauge: %w", err)
	}
	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		n, err := size(ctx)
		if err != nil {
			return err
		}
		o.ObserveInt64(gauge, int64(n))
		return nil
	}, gauge)
	if err != nil {
		return nil, fmt.Errorf("registering revocation size callback: %w", err)
	}
	return m, nil
}

// RecordLogin counts one login attempt.
func (m *AuthMetrics) RecordLogin(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordRevoked counts one revoked token.
func (m *AuthMetrics) RecordRevoked(ctx context.Context) {
	if m == nil {
		return
	}
	m.revoked.Add(ctx, 1)
}

// RecordPurge counts entries removed by a purge.
func (m *AuthMetrics) RecordPurge(ctx context.Context, removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.purged.Add(ctx, int64(removed))
}
