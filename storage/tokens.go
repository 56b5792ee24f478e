package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps the access token in Redis so that several CLI or
// gateway instances on one host share a session.
type RedisTokenStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisTokenStore stores the token under prefix + "kanban_token". A zero
// ttl keeps it until cleared.
func NewRedisTokenStore(client *redis.Client, prefix string, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{client: client, key: prefix + "kanban_token", ttl: ttl}
}

func (r *RedisTokenStore) Load(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

func (r *RedisTokenStore) Save(ctx context.Context, token string) error {
	return r.client.Set(ctx, r.key, token, r.ttl).Err()
}

func (r *RedisTokenStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
