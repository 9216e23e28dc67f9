package shop

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares cached results across processes. Errors surface to the
// caller, which degrades to the live query.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]TopSeller, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rows []TopSeller
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, false, err
	}
	return rows, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, rows []TopSeller, ttl time.Duration) error {
	if rows == nil {
		rows = []TopSeller{}
	}

	b, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}
