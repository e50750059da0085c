// Package redis stores records in Redis under a common key prefix.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/repository"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a client and verifies it with PING.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type kvRepository struct {
	client goredis.Cmdable
	prefix string
}

// NewKVRepository creates a KVRepository that namespaces every key with prefix.
func NewKVRepository(client goredis.Cmdable, prefix string) repository.KVRepository {
	return &kvRepository{client: client, prefix: prefix}
}

func (r *kvRepository) key(k string) string {
	return r.prefix + k
}

func (r *kvRepository) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("redis_repo")

	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		log.Debug("key not found: %s", key)
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to get key %s: %v", key, err)
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (r *kvRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		logger.FromContext(ctx).WithPrefix("redis_repo").Error("failed to set key %s: %v", key, err)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		logger.FromContext(ctx).WithPrefix("redis_repo").Error("failed to delete key %s: %v", key, err)
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
