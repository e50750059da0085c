package main

import (
	"context"
	"fmt"

	"github.com/vytor/sumrunner/internal/api"
	"github.com/vytor/sumrunner/internal/config"
	"github.com/vytor/sumrunner/internal/db"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/repository"
	"github.com/vytor/sumrunner/internal/repository/memory"
	"github.com/vytor/sumrunner/internal/repository/redis"
	"github.com/vytor/sumrunner/internal/repository/sqlite"
)

// storage is the key-value backend selected by STORAGE_DRIVER.
type storage struct {
	repo   repository.KVRepository
	health api.HealthChecker
	close  func() error
}

func openStorage(ctx context.Context, cfg config.Config, log *logger.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		log.Debug("db_path=%s", cfg.DBPath)
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return &storage{
			repo:   sqlite.NewKVRepository(database.DB),
			health: database,
			close:  database.Close,
		}, nil

	case config.StorageRedis:
		log.Debug("redis_addr=%s redis_db=%d prefix=%s", cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)
		client, err := redis.Connect(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &storage{
			repo: redis.NewKVRepository(client, cfg.RedisPrefix),
			health: api.HealthCheckFunc(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}),
			close: client.Close,
		}, nil

	case config.StorageMemory:
		log.Warn("using in-memory storage, progress is lost on restart")
		return &storage{
			repo:  memory.NewKVRepository(),
			close: func() error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
