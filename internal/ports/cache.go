package ports

import (
	"context"
	"time"
)

// Cache is a key-value store with optional expiration. Backed by Redis in
// production, by an in-memory map in tests and single-process tools.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
