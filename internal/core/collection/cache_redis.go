package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/collections-api/internal/platform/constants"
	"github.com/taibuivan/collections-api/pkg/slice"
)

// RedisCache keeps published aggregates as JSON under their slug. Only the
// public shape is stored; internal ids do not survive the round trip.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(slug string) string {
	return constants.RedisPrefixPublicCollection + slug
}

func (cache *RedisCache) Get(ctx context.Context, slug string) (*Collection, error) {
	raw, err := cache.client.Get(ctx, cacheKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("collection cache: get %q: %w", slug, err)
	}

	var c Collection
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("collection cache: decode %q: %w", slug, err)
	}
	return &c, nil
}

func (cache *RedisCache) Set(ctx context.Context, c *Collection) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("collection cache: encode %q: %w", c.Slug, err)
	}
	if err := cache.client.Set(ctx, cacheKey(c.Slug), raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("collection cache: set %q: %w", c.Slug, err)
	}
	return nil
}

func (cache *RedisCache) Delete(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	if err := cache.client.Del(ctx, slice.Map(slugs, cacheKey)...).Err(); err != nil {
		return fmt.Errorf("collection cache: delete: %w", err)
	}
	return nil
}
