package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLocalCacheSetGet(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "payvault:current_customer", "cus_123", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := c.Get(ctx, "payvault:current_customer")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "cus_123" {
		t.Errorf("expected cus_123, got %s", got)
	}
}

func TestLocalCacheMissingKey(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()

	if _, err := c.Get(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestLocalCacheExpiration(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); err == nil {
		t.Error("expected expired key to be gone")
	}
}

func TestLocalCacheDelete(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "k"); err == nil {
		t.Error("expected key to be deleted")
	}
}

func TestLocalCacheMarshalsStructs(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	type payload struct {
		ID string `json:"id"`
	}
	if err := c.Set(ctx, "k", payload{ID: "cus_1"}, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != `{"id":"cus_1"}` {
		t.Errorf("unexpected stored value: %s", got)
	}
}
