package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisShareThrottleRepository struct {
	client *redis.Client
}

func NewRedisShareThrottleRepository(client *redis.Client) *RedisShareThrottleRepository {
	return &RedisShareThrottleRepository{client: client}
}

func throttleKey(token, ip string) string {
	return fmt.Sprintf("share:pwfail:%s:%s", token, ip)
}

func (r *RedisShareThrottleRepository) Failures(ctx context.Context, token string, ip string) (int64, error) {
	count, err := r.client.Get(ctx, throttleKey(token, ip)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

func (r *RedisShareThrottleRepository) RegisterFailure(ctx context.Context, token string, ip string, lockSeconds int) (int64, error) {
	key := throttleKey(token, ip)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = r.client.Expire(ctx, key, time.Duration(lockSeconds)*time.Second).Err()
	}
	return count, nil
}

func (r *RedisShareThrottleRepository) Reset(ctx context.Context, token string, ip string) error {
	return r.client.Del(ctx, throttleKey(token, ip)).Err()
}
