// Package cache stores rendered responses of the recipe pages.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListPath is the path of the recipe listing
const ListPath = "/api/v1/recipes"

// RecipePath returns the path of a recipe's detail page
func RecipePath(id string) string {
	return ListPath + "/" + id
}

// PageCache holds rendered page bodies keyed by request path.
//
// Every Invalidate advances a generation counter. A reader that renders a
// page reads Generation first and stores the result with SetAt, which drops
// the body if an invalidation happened in between.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
	Invalidate(ctx context.Context, keys ...string) error
	Generation(ctx context.Context) (int64, error)
	SetAt(ctx context.Context, key string, body []byte, gen int64) (bool, error)
}

// RedisCache is a PageCache stored in Redis with a fixed TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	genKey string
}

// NewRedisCache creates a new RedisCache
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "page:", genKey: "page-generation"}
}

// KEYS[1] page, KEYS[2] generation; ARGV body, expected generation, ttl ms
var setAtScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[2]) or '0'
if cur ~= ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, body []byte) error {
	return c.client.Set(ctx, c.prefix+key, body, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, full...)
		return nil
	})
	return err
}

func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) SetAt(ctx context.Context, key string, body []byte, gen int64) (bool, error) {
	stored, err := setAtScript.Run(ctx, c.client, []string{c.prefix + key, c.genKey},
		body, gen, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

type entry struct {
	body    []byte
	expires time.Time
}

// MemoryCache is an in-process PageCache
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	gen     int64
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a new MemoryCache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.body...), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{body: append([]byte(nil), body...), expires: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *MemoryCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *MemoryCache) SetAt(_ context.Context, key string, body []byte, gen int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false, nil
	}
	c.entries[key] = entry{body: append([]byte(nil), body...), expires: c.now().Add(c.ttl)}
	return true, nil
}

// Noop is a PageCache that stores nothing
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte) error { return nil }

func (Noop) Invalidate(context.Context, ...string) error { return nil }

func (Noop) Generation(context.Context) (int64, error) { return 0, nil }

func (Noop) SetAt(context.Context, string, []byte, int64) (bool, error) { return false, nil }
