package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/likeboard/domain"
)

const (
	KeyMessageView = "message:view:%s"
)

type viewCache struct {
	client *redis.Client
}

var _ domain.CacheStore = (*viewCache)(nil)

func NewViewCache(client *redis.Client) *viewCache {
	return &viewCache{
		client,
	}
}

func (c *viewCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, viewKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	} else if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *viewCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, viewKey(key), value, ttl).Err()
}

func (c *viewCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	rkeys := make([]string, len(keys))
	for i, k := range keys {
		rkeys[i] = viewKey(k)
	}
	return c.client.Del(ctx, rkeys...).Err()
}

func viewKey(key string) string {
	return fmt.Sprintf(KeyMessageView, key)
}
