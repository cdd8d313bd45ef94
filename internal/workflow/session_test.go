package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/mocks"
)

func TestSessionStartsEmpty(t *testing.T) {
	s := NewSession(context.Background(), mocks.NewMockCache(), zap.NewNop())

	if got := s.Customer(); got != "" {
		t.Errorf("fresh session should have no customer, got %q", got)
	}
}

func TestSessionAdoptPersists(t *testing.T) {
	ctx := context.Background()
	cache := mocks.NewMockCache()

	s := NewSession(ctx, cache, zap.NewNop())
	s.Adopt(ctx, "cus_1")

	if got := s.Customer(); got != "cus_1" {
		t.Errorf("expected cus_1, got %q", got)
	}

	restored := NewSession(ctx, cache, zap.NewNop())
	if got := restored.Customer(); got != "cus_1" {
		t.Errorf("new session should restore cus_1 from the cache, got %q", got)
	}
}

func TestSessionAdoptOverwrites(t *testing.T) {
	ctx := context.Background()
	cache := mocks.NewMockCache()

	s := NewSession(ctx, cache, zap.NewNop())
	s.Adopt(ctx, "cus_1")
	s.Adopt(ctx, "cus_2")

	if got := s.Customer(); got != "cus_2" {
		t.Errorf("expected cus_2, got %q", got)
	}
	if got, err := cache.Get(ctx, SessionKey); err != nil || got != "cus_2" {
		t.Errorf("cache should hold cus_2, got %q (err %v)", got, err)
	}
}

func TestSessionSurvivesCacheFailure(t *testing.T) {
	ctx := context.Background()
	cache := mocks.NewMockCache()
	cache.SetFunc = func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
		return errors.New("redis down")
	}

	s := NewSession(ctx, cache, zap.NewNop())
	s.Adopt(ctx, "cus_1")

	if got := s.Customer(); got != "cus_1" {
		t.Errorf("in-memory reference should survive a persist failure, got %q", got)
	}
}
