package inventory

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/repository"
	"github.com/tair/commodity-tracker/pkg/config"
	"github.com/tair/commodity-tracker/pkg/database"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// Storage is an opened bucket backend
type Storage struct {
	Buckets domain.BucketStore
	// Ping reports backend reachability; nil for in-memory storage
	Ping  func(ctx context.Context) error
	Close func() error
}

// OpenStorage connects the bucket backend selected by cfg.Storage.Driver and
// wraps it with tracing
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.NewGormConnection(ctx, database.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			DBName:   cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}

		buckets := repository.NewGormBucketStore(db)
		if err := buckets.AutoMigrate(); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		logger.Logger.Info().Str("host", cfg.DB.Host).Str("database", cfg.DB.Name).Msg("Postgres storage ready")
		return &Storage{
			Buckets: repository.NewTracingBucketStore(buckets),
			Ping:    sqlDB.PingContext,
			Close:   sqlDB.Close,
		}, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		logger.Logger.Info().Str("addr", cfg.Redis.Addr).Str("prefix", cfg.Redis.Prefix).Msg("Redis storage ready")
		return &Storage{
			Buckets: repository.NewTracingBucketStore(repository.NewRedisBucketStore(client, cfg.Redis.Prefix)),
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			Close: client.Close,
		}, nil

	case config.StorageMemory:
		logger.Logger.Warn().Msg("In-memory storage: inventory is lost on restart")
		return &Storage{
			Buckets: repository.NewTracingBucketStore(repository.NewMemoryBucketStore()),
			Close:   func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
