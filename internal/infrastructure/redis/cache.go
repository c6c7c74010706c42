package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/markclone/shop-api/internal/config"
	"github.com/markclone/shop-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the key is absent. Callers fall through to
// the primary store; any other error should be logged but treated the same.
var ErrCacheMiss = errors.New("cache miss")

// NewClient creates a Redis client for the configured address.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

// ProductCache stores category product listings with a TTL.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func (c *ProductCache) key(categoryID string) string {
	return "product_listing:" + categoryID
}

func (c *ProductCache) GetCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	data, err := c.rdb.Get(ctx, c.key(categoryID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		// Corrupt entry; treat as a miss so it gets rewritten.
		return nil, ErrCacheMiss
	}
	return products, nil
}

func (c *ProductCache) SetCategory(ctx context.Context, categoryID string, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(categoryID), data, c.ttl).Err()
}

// InvalidateCategory drops the cached listing for a category. Called after
// product writes so readers do not see stale listings for the full TTL.
func (c *ProductCache) InvalidateCategory(ctx context.Context, categoryID string) error {
	return c.rdb.Del(ctx, c.key(categoryID)).Err()
}
