package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read, so each render
// recomputes the chart and artifacts from scratch. It backs the --no-cache
// flag and keeps tests independent of on-disk state.
type NullCache struct{}

// NewNullCache returns the discard-everything backend.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set drops the entry.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op; there is never anything to remove.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
