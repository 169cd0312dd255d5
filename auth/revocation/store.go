package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/mddapi/logger"
)

// Store is the revocation list. A token present in the store is invalid
// regardless of its signature or expiry.
type Store interface {
	// Revoke records token as invalid until exp. Revoking twice overwrites exp.
	Revoke(ctx context.Context, token string, exp time.Time) error
	// IsRevoked reports whether token is present.
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Purge removes entries whose expiry is strictly before now.
	Purge(ctx context.Context, now time.Time) (int, error)
	// Size returns the number of entries currently held.
	Size(ctx context.Context) (int, error)
}

// NewStore builds the backend named by cfg.Backend. src is only consulted
// for the redis backend and may be nil otherwise.
func NewStore(cfg Config, src ClientSource, log *logger.Logger) (Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendRedis:
		if src == nil {
			return nil, fmt.Errorf("revocation backend %q requires redis to be enabled", cfg.Backend)
		}
		return NewRedisStore(src, cfg, log), nil
	default:
		return NewMemoryStore(log), nil
	}
}
