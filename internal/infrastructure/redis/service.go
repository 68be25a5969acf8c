package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/mhkgpt/mhk-gpt/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Service struct {
	client *redis.Client
}

// NewService connects to Redis. It returns nil when Redis is not configured
// or cannot be reached, so callers fall back to in-memory storage.
func NewService(ctx context.Context, cfg config.RedisConfig) *Service {
	if cfg.URL == "" {
		log.Warn().Msg("Redis URL not configured - service will be unavailable")
		return nil
	}

	opts, err := options(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Invalid Redis configuration")
		return nil
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().
			Err(err).
			Str("addr", opts.Addr).
			Msg("Failed to establish Redis connection")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
	return NewServiceWithClient(client)
}

// NewServiceWithClient wraps an existing client
func NewServiceWithClient(client *redis.Client) *Service {
	return &Service{client: client}
}

// options accepts either a redis:// URL or a bare host:port address
func options(cfg config.RedisConfig) (*redis.Options, error) {
	if opts, err := redis.ParseURL(cfg.URL); err == nil {
		if cfg.Password != "" {
			opts.Password = cfg.Password
		}
		return opts, nil
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("empty redis address")
	}
	return &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

// RPushCapped appends values to the list at key, trims it to the newest
// maxLen entries and refreshes its expiry, in one transaction.
func (s *Service) RPushCapped(ctx context.Context, key string, maxLen int64, expiration time.Duration, values ...interface{}) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if maxLen > 0 {
			pipe.LTrim(ctx, key, -maxLen, -1)
		}
		if expiration > 0 {
			pipe.Expire(ctx, key, expiration)
		}
		return nil
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Dur("expiration", expiration).
			Msg("Critical Redis RPUSH operation failed")
		return err
	}
	return nil
}

// LRange returns the whole list stored at key
func (s *Service) LRange(ctx context.Context, key string) ([]string, error) {
	vals, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Msg("Critical Redis LRANGE operation failed")
		return nil, err
	}
	return vals, nil
}

// Delete removes a key from Redis
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Close closes the Redis connection
func (s *Service) Close() error {
	return s.client.Close()
}
