package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
)

func newGormStore(t *testing.T) *GormBucketStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := NewGormBucketStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func newRedisStore(t *testing.T) *RedisBucketStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisBucketStore(client, "")
}

func bucketStores(t *testing.T) map[string]domain.BucketStore {
	return map[string]domain.BucketStore{
		"memory":  NewMemoryBucketStore(),
		"gorm":    newGormStore(t),
		"redis":   newRedisStore(t),
		"tracing": NewTracingBucketStore(NewMemoryBucketStore()),
	}
}

func TestBucketStoreMissingBucket(t *testing.T) {
	for name, store := range bucketStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(context.Background(), domain.BucketAlerts)
			assert.ErrorIs(t, err, domain.ErrBucketNotFound)
		})
	}
}

func TestBucketStoreSaveAndOverwrite(t *testing.T) {
	ctx := context.Background()

	for name, store := range bucketStores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.Save(ctx, map[domain.Bucket][]byte{
				domain.BucketCommodities: []byte(`[{"id":"1"}]`),
				domain.BucketMovements:   []byte(`[]`),
			})
			require.NoError(t, err)

			err = store.Save(ctx, map[domain.Bucket][]byte{
				domain.BucketCommodities: []byte(`[{"id":"2"}]`),
			})
			require.NoError(t, err)

			data, err := store.Load(ctx, domain.BucketCommodities)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"2"}]`, string(data))

			data, err = store.Load(ctx, domain.BucketMovements)
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(data))

			_, err = store.Load(ctx, domain.BucketAlerts)
			assert.ErrorIs(t, err, domain.ErrBucketNotFound)
		})
	}
}

func TestRedisBucketStoreUsesPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisBucketStore(client, "test:")
	require.NoError(t, store.Save(context.Background(), map[domain.Bucket][]byte{
		domain.BucketAlerts: []byte(`[]`),
	}))

	assert.True(t, mr.Exists("test:inventory_alerts"))
}

func TestMemoryBucketStoreCopiesPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBucketStore()

	payload := []byte(`[1]`)
	require.NoError(t, store.Save(ctx, map[domain.Bucket][]byte{domain.BucketAlerts: payload}))
	payload[1] = '2'

	data, err := store.Load(ctx, domain.BucketAlerts)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(data))
}
