package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	pkgcache "bookheaven-backend/pkg/cache"
)

type RedisClient struct {
	Client *redis.Client
}

var _ pkgcache.Cache = (*RedisClient)(nil)

func NewRedisClient(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         cfg.Host,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: 5,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
	}
}

func (r *RedisClient) Connect(ctx context.Context) error {
	log.Info().Str("addr", r.Client.Options().Addr).Msg("[REDIS] Connecting to Redis...")

	if err := r.Ping(ctx); err != nil {
		return err
	}

	log.Info().Msg("[REDIS] Connected successfully")
	return nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("redis decode %s: %w", key, err)
	}
	return true, nil
}

func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", key, err)
	}

	if err := r.Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

// DeletePattern walks the keyspace with SCAN, never KEYS, and unlinks matches in batches
func (r *RedisClient) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.Client.Scan(ctx, 0, pattern, 200).Iterator()

	batch := make([]string, 0, 200)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := r.Client.Unlink(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return fmt.Errorf("redis unlink %s: %w", pattern, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", pattern, err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("redis unlink %s: %w", pattern, err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
