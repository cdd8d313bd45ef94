package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/ports"
)

// SessionKey is the fixed storage key for the current customer reference.
const SessionKey = "payvault:current_customer"

// Session owns the single "current customer" reference. It is read at saga
// start and written only on successful customer creation; overwritten,
// never merged, never explicitly cleared.
type Session struct {
	cache ports.Cache
	log   *zap.Logger

	current string
}

// NewSession loads the persisted customer reference, if any. A cache miss
// simply means no customer has been created yet.
func NewSession(ctx context.Context, cache ports.Cache, log *zap.Logger) *Session {
	s := &Session{cache: cache, log: log}

	id, err := cache.Get(ctx, SessionKey)
	if err == nil && id != "" {
		s.current = id
		log.Info("Restored customer reference", zap.String("customer_id", id))
	}
	return s
}

// Customer returns the current customer reference, empty when none is set.
func (s *Session) Customer() string {
	return s.current
}

// Adopt makes id the current customer reference and persists it. Sagas run
// one at a time on the calling goroutine, so no locking is needed between
// the read at saga start and this single write point.
func (s *Session) Adopt(ctx context.Context, id string) {
	s.current = id
	if err := s.cache.Set(ctx, SessionKey, id, 0); err != nil {
		// The in-memory reference stays valid for this process either way.
		s.log.Warn("Failed to persist customer reference", zap.Error(err))
	}
}
