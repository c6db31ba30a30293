package cache

import "context"

// Invalidator is the write-side view of the cache used after admin changes.
type Invalidator interface {
	Invalidate(ctx context.Context, pattern string)
	InvalidateAll(ctx context.Context, patterns ...string)
	Del(ctx context.Context, key string)
}

var _ Invalidator = (*Cache)(nil)
