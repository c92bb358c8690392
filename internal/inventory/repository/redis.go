package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
)

// DefaultRedisPrefix namespaces bucket keys
const DefaultRedisPrefix = "commodity-tracker:"

// RedisBucketStore keeps every bucket under its own key
type RedisBucketStore struct {
	client *redis.Client
	prefix string
}

func NewRedisBucketStore(client *redis.Client, prefix string) *RedisBucketStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBucketStore{client: client, prefix: prefix}
}

func (r *RedisBucketStore) key(bucket domain.Bucket) string {
	return r.prefix + string(bucket)
}

func (r *RedisBucketStore) Load(ctx context.Context, bucket domain.Bucket) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(bucket)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrBucketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load bucket %s: %w", bucket, err)
	}
	return data, nil
}

// Save writes all given buckets inside MULTI/EXEC
func (r *RedisBucketStore) Save(ctx context.Context, buckets map[domain.Bucket][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for bucket, data := range buckets {
			pipe.Set(ctx, r.key(bucket), data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save buckets: %w", err)
	}
	return nil
}
