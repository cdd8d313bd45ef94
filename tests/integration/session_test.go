package integration

import (
	"context"
	"testing"

	"github.com/seu-repo/payvault/internal/adapter/cache"
	"github.com/seu-repo/payvault/internal/workflow"
)

func TestSessionPersistsAcrossProcesses(t *testing.T) {
	env := SetupTestEnvironment(t)
	FlushRedis(t, env.Redis)

	ctx := context.Background()

	redisCache, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to connect cache: %v", err)
	}
	defer redisCache.Close()

	session := workflow.NewSession(ctx, redisCache, env.Logger)
	if session.Customer() != "" {
		t.Fatalf("expected empty session, got %q", session.Customer())
	}

	session.Adopt(ctx, "cus_integration")

	// A second cache connection simulates a process restart
	secondCache, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to reconnect cache: %v", err)
	}
	defer secondCache.Close()

	restored := workflow.NewSession(ctx, secondCache, env.Logger)
	if restored.Customer() != "cus_integration" {
		t.Errorf("expected restored session cus_integration, got %q", restored.Customer())
	}
}

func TestSessionOverwriteIsVisibleToNewSessions(t *testing.T) {
	env := SetupTestEnvironment(t)
	FlushRedis(t, env.Redis)

	ctx := context.Background()

	redisCache, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to connect cache: %v", err)
	}
	defer redisCache.Close()

	session := workflow.NewSession(ctx, redisCache, env.Logger)
	session.Adopt(ctx, "cus_first")
	session.Adopt(ctx, "cus_second")

	restored := workflow.NewSession(ctx, redisCache, env.Logger)
	if restored.Customer() != "cus_second" {
		t.Errorf("expected cus_second, got %q", restored.Customer())
	}
}
