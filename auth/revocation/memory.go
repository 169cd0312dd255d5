package revocation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/mddapi/logger"
)

// MemoryStore keeps revoked tokens in a process-local map. Restarting the
// process forgets every revocation.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	log     *logger.Logger
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &MemoryStore{
		entries: make(map[string]time.Time),
		log:     log.WithComponent("revocation"),
	}
}

// Revoke records the token. Blank tokens are ignored with a warning.
func (s *MemoryStore) Revoke(_ context.Context, token string, exp time.Time) error {
	if strings.TrimSpace(token) == "" {
		s.log.Warn("Attempted to revoke an empty token")
		return nil
	}
	s.mu.Lock()
	s.entries[token] = exp
	s.mu.Unlock()

	s.log.Debug("Token revoked", logger.Fields("expires_at", exp.UTC().Format(time.RFC3339)))
	return nil
}

// IsRevoked reports membership. Blank tokens are never revoked.
func (s *MemoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}
	s.mu.RLock()
	_, ok := s.entries[token]
	s.mu.RUnlock()
	return ok, nil
}

// Purge drops entries that expired strictly before now.
func (s *MemoryStore) Purge(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, exp := range s.entries {
		if exp.Before(now) {
			delete(s.entries, token)
			removed++
		}
	}
	return removed, nil
}

// Size returns the entry count.
func (s *MemoryStore) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
