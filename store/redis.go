package store

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"log/slog"
)

// Redis is a Store keeping blobs as redis string values
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis connects to the redis server and checks it responds
func NewRedis(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*Redis, error) {

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	logger.Info("redis connection established", "addr", cfg.Addr)

	return &Redis{
		client: client,
		logger: logger,
	}, nil
}

// Load gets the value under key
func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load blob %s: %w", key, err)
	}

	return data, nil
}

// Save sets the value under key without expiry
func (r *Redis) Save(ctx context.Context, key string, blob []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, blob, 0).Err(); err != nil {
		return fmt.Errorf("save blob %s: %w", key, err)
	}

	return nil
}

// Delete removes key
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

// Close closes the client connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
