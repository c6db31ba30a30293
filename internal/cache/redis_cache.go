package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/weiawesome/wes-furniture/internal/config"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

var ErrCacheMiss = errors.New("cache miss")

const (
	defaultWriteTimeout = 2 * time.Second
	defaultFetchTimeout = 10 * time.Second
	defaultScanCount    = 100
)

// Options tunes the facade's background behaviour.
type Options struct {
	// WriteTimeout bounds each fire-and-forget SET.
	WriteTimeout time.Duration
	// FetchTimeout bounds a shared miss. It runs detached from the caller
	// that started it, so one cancelled request cannot fail the others.
	FetchTimeout time.Duration
	// ScanCount is the COUNT hint used while walking keys for Invalidate.
	ScanCount int64
}

// Cache is a read-through cache in front of Redis. A Cache built without a
// client is disabled: every read goes straight to the fetch function.
//
// Store failures never reach callers. Reads that fail fall back to a direct
// fetch, writes happen in the background and are only logged on failure.
type Cache struct {
	client *redis.Client
	opts   Options
	sf     singleflight.Group
	writes sync.WaitGroup
}

// NewRedisClient builds the shared Redis connection from cfg. It returns a nil
// client and no error when no URL is configured. Reachability is not checked
// here; see (*Cache).Ping.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	opts.MaxRetries = cfg.MaxRetries
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	if opts.TLSConfig != nil && cfg.TLSInsecure {
		opts.TLSConfig = &tls.Config{
			ServerName:         opts.TLSConfig.ServerName,
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // managed providers with self-signed certs
		}
	}

	return redis.NewClient(opts), nil
}

// New creates a Cache over client. A nil client disables caching.
func New(client *redis.Client, opts Options) *Cache {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.ScanCount <= 0 {
		opts.ScanCount = defaultScanCount
	}
	return &Cache{client: client, opts: opts}
}

// Enabled reports whether a backing store is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks store reachability with a 5s timeout.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// GetOrSet returns the cached value under key, or calls fetch, stores its
// result for ttl in the background and returns it.
//
// Errors from fetch are returned unchanged and nothing is cached. Store
// errors (unreachable, timeouts, undecodable payloads) are logged and
// answered with a direct fetch.
//
// Concurrent misses on key share one fetch. The shared work keeps the
// values of the first caller's ctx but not its cancellation; each caller
// stops waiting when its own ctx is done.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return fetch(ctx)
	}

	ch := c.sf.DoChan(key, func() (interface{}, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.FetchTimeout)
		defer cancel()

		out, err := get[T](sctx, c, key)
		if err == nil {
			return out, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			l := log.Ctx(sctx)
			l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache read failed, fetching directly")
			return fetch(sctx)
		}

		out, err = fetch(sctx)
		if err != nil {
			return out, err
		}
		c.setAsync(sctx, key, out, ttl)
		return out, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		out, _ := res.Val.(T)
		return out, nil
	}
}

func get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var out T

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return out, ErrCacheMiss
		}
		return out, fmt.Errorf("failed to get from redis: %w", err)
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return out, nil
}

// setAsync encodes value before returning, so callers may mutate it freely,
// then writes it in a goroutine.
func (c *Cache) setAsync(ctx context.Context, key string, value any, ttl time.Duration) {
	l := log.Ctx(ctx)

	data, err := json.Marshal(value)
	if err != nil {
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("failed to marshal cache data")
		return
	}

	c.writes.Add(1)
	go func() {
		defer c.writes.Done()

		wctx, cancel := context.WithTimeout(context.Background(), c.opts.WriteTimeout)
		defer cancel()

		if err := c.client.Set(wctx, key, data, ttl).Err(); err != nil {
			l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache set error")
		}
	}()
}

// Invalidate deletes every key matching the glob pattern. It is a no-op when
// caching is disabled and only logs on failure.
func (c *Cache) Invalidate(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}
	l := log.Ctx(ctx)

	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, c.opts.ScanCount).Result()
		if err != nil {
			l.Warn().Err(err).Str(log.FieldPattern, pattern).Msg("cache invalidation scan failed")
			return
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				l.Warn().Err(err).Str(log.FieldPattern, pattern).Msg("cache invalidation delete failed")
				return
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if deleted > 0 {
		l.Info().Str(log.FieldPattern, pattern).Int("keys", deleted).Msg("cache keys invalidated")
	}
}

// InvalidateAll runs Invalidate for each pattern.
func (c *Cache) InvalidateAll(ctx context.Context, patterns ...string) {
	for _, p := range patterns {
		c.Invalidate(ctx, p)
	}
}

// Del deletes a single key. It is a no-op when caching is disabled and only
// logs on failure.
func (c *Cache) Del(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache delete failed")
	}
}

// Wait blocks until background writes started so far have finished.
func (c *Cache) Wait() {
	if c == nil {
		return
	}
	c.writes.Wait()
}

// Close drains background writes and closes the client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	c.writes.Wait()
	return c.client.Close()
}
