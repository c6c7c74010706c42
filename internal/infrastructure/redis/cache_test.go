package redisinfra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/markclone/shop-api/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCacheTest(t *testing.T) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewProductCache(rdb, 5*time.Minute), mr
}

func TestProductCache_MissThenHit(t *testing.T) {
	cache, _ := newCacheTest(t)
	ctx := context.Background()

	_, err := cache.GetCategory(ctx, "cat-1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	products := []domain.Product{
		{ProductID: "p1", CategoryID: "cat-1", Name: "keyboard", Price: 49.99, Quantity: 10},
		{ProductID: "p2", CategoryID: "cat-1", Name: "mouse", Price: 19.99, Quantity: 25},
	}
	require.NoError(t, cache.SetCategory(ctx, "cat-1", products))

	got, err := cache.GetCategory(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, products, got)
}

func TestProductCache_EntryExpires(t *testing.T) {
	cache, mr := newCacheTest(t)
	ctx := context.Background()

	require.NoError(t, cache.SetCategory(ctx, "cat-1", []domain.Product{{ProductID: "p1"}}))
	mr.FastForward(6 * time.Minute)

	_, err := cache.GetCategory(ctx, "cat-1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestProductCache_CorruptEntryTreatedAsMiss(t *testing.T) {
	cache, mr := newCacheTest(t)
	require.NoError(t, mr.Set("product_listing:cat-1", "{not json"))

	_, err := cache.GetCategory(context.Background(), "cat-1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestProductCache_Invalidate(t *testing.T) {
	cache, _ := newCacheTest(t)
	ctx := context.Background()

	require.NoError(t, cache.SetCategory(ctx, "cat-1", []domain.Product{{ProductID: "p1"}}))
	require.NoError(t, cache.InvalidateCategory(ctx, "cat-1"))

	_, err := cache.GetCategory(ctx, "cat-1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
