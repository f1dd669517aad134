package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"albaranes/internal/logger"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "albaranes:".
	Prefix string
}

// RedisStore keeps each key as a Redis string.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	const op = "NewRedisStore"

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, wrapError(op, "", fmt.Errorf("failed to reach redis at %s: %w", opts.Addr, err))
	}

	s := NewRedisStoreWithClient(client, opts.Prefix)
	s.log.Debug().Str("addr", opts.Addr).Int("db", opts.DB).Msg("Redis store ready")
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		log:    logger.WithComponent("store-redis"),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapError("Get", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	// No expiration: collections are kept until overwritten.
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return wrapError("Set", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
