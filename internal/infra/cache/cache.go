package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented TTL cache. Expiry is checked lazily at read time;
// there is no background eviction. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}
