package persistence

import (
	"context"
	"time"
)

type redisSlots interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SlotKey(name string) string
}

// RedisBackend stores slots under namespaced redis keys without expiry.
type RedisBackend struct {
	client redisSlots
}

func NewRedisBackend(client redisSlots) *RedisBackend {
	return &RedisBackend{client: client}
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return r.client.Lookup(ctx, r.client.SlotKey(key))
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.SlotKey(key), value, 0)
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.SlotKey(key))
}
