package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/mddapi/logger"
	"github.com/kbukum/mddapi/redis"
)

// minRedisTTL keeps already-expired tokens listed briefly instead of
// sending a non-positive TTL.
const minRedisTTL = time.Second

// ErrRedisUnavailable is returned while the redis component is not started.
var ErrRedisUnavailable = errors.New("revocation: redis client not started")

// ClientSource yields the live redis client. *redis.Component satisfies it.
type ClientSource interface {
	Client() *redis.Client
}

// RedisStore shares revocations between instances. Keys are the SHA-256 of
// the token under a prefix; redis expiry replaces the purge sweep.
type RedisStore struct {
	src    ClientSource
	prefix string
	grace  time.Duration
	now    func() time.Time
	log    *logger.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store on top of src. Entries live until
// exp plus one cleanup period, matching the in-memory purge horizon.
func NewRedisStore(src ClientSource, cfg Config, log *logger.Logger) *RedisStore {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &RedisStore{
		src:    src,
		prefix: strings.TrimSuffix(cfg.KeyPrefix, ":"),
		grace:  cfg.Period(),
		now:    time.Now,
		log:    log.WithComponent("revocation"),
	}
}

func (s *RedisStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + ":" + hex.EncodeToString(sum[:])
}

func (s *RedisStore) client() (*redis.Client, error) {
	c := s.src.Client()
	if c == nil {
		return nil, ErrRedisUnavailable
	}
	return c, nil
}

// Revoke stores the token hash with a TTL of exp - now + cleanup period.
func (s *RedisStore) Revoke(ctx context.Context, token string, exp time.Time) error {
	if strings.TrimSpace(token) == "" {
		s.log.Warn("Attempted to revoke an empty token")
		return nil
	}
	c, err := s.client()
	if err != nil {
		return err
	}

	ttl := exp.Sub(s.now()) + s.grace
	if ttl < minRedisTTL {
		ttl = minRedisTTL
	}
	if err := c.Set(ctx, s.key(token), strconv.FormatInt(exp.Unix(), 10), ttl); err != nil {
		return fmt.Errorf("revocation: store token: %w", err)
	}
	s.log.Debug("Token revoked", logger.Fields(
		"expires_at", exp.UTC().Format(time.RFC3339),
		"ttl", ttl.String(),
	))
	return nil
}

// IsRevoked checks key existence.
func (s *RedisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}
	c, err := s.client()
	if err != nil {
		return false, err
	}
	n, err := c.Exists(ctx, s.key(token))
	if err != nil {
		return false, fmt.Errorf("revocation: lookup token: %w", err)
	}
	return n > 0, nil
}

// Purge is a no-op: redis evicts keys on their TTL.
func (s *RedisStore) Purge(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

// Size counts the prefixed keys.
func (s *RedisStore) Size(ctx context.Context) (int, error) {
	c, err := s.client()
	if err != nil {
		return 0, err
	}
	return c.CountKeys(ctx, s.prefix+":*")
}
