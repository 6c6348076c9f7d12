package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fnsgate/internal/verification/inn"
	"fnsgate/internal/verification/models"
	"fnsgate/pkg/platform/sentinel"
)

const redisKeyPrefix = "fnsgate:verify:"

// Redis backs the verification cache with a shared redis instance so replicas
// behind a load balancer share one freshness window. TTL is enforced by redis
// key expiry; capacity is left to the redis maxmemory policy.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key inn.INN) (models.Result, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Result{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Result{}, fmt.Errorf("redis get: %w", err)
	}

	var result models.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry is as good as a miss; the next Put overwrites it.
		return models.Result{}, sentinel.ErrNotFound
	}
	return result, nil
}

func (r *Redis) Put(ctx context.Context, key inn.INN, result models.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+string(key), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
