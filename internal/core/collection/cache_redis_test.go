package collection

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collections-api/internal/core/category"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client, time.Minute), server
}

func TestRedisCache_RoundTrip(t *testing.T) {
	cache, server := newTestRedisCache(t)
	ctx := context.Background()

	missing, err := cache.Get(ctx, "walter-bowls")
	require.NoError(t, err)
	assert.Nil(t, missing)

	c := &Collection{
		ExternalID: "c-1",
		Slug:       "walter-bowls",
		Title:      "walter bowls",
		Status:     StatusPublished,
		Language:   category.LanguageEN,
		Stories:    []Story{{ExternalID: "s-1", URL: "https://example.com/a", Authors: []StoryAuthor{{Name: "Ada"}}}},
	}
	require.NoError(t, cache.Set(ctx, c))

	assert.True(t, server.Exists("collections:public:slug:walter-bowls"))
	assert.Equal(t, time.Minute, server.TTL("collections:public:slug:walter-bowls"))

	got, err := cache.Get(ctx, "walter-bowls")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "walter bowls", got.Title)
	require.Len(t, got.Stories, 1)
	assert.Equal(t, "Ada", got.Stories[0].Authors[0].Name)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, server := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &Collection{Slug: "one"}))
	require.NoError(t, cache.Set(ctx, &Collection{Slug: "two"}))

	require.NoError(t, cache.Delete(ctx, "one", "two", "never-cached"))
	assert.False(t, server.Exists("collections:public:slug:one"))
	assert.False(t, server.Exists("collections:public:slug:two"))

	assert.NoError(t, cache.Delete(ctx))
}

func TestRedisCache_Unavailable(t *testing.T) {
	cache, server := newTestRedisCache(t)
	server.Close()

	_, err := cache.Get(context.Background(), "walter-bowls")
	assert.Error(t, err)
}
