package repository

import (
	"context"
	"sync"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
)

// MemoryBucketStore keeps buckets in process memory
type MemoryBucketStore struct {
	mu      sync.RWMutex
	buckets map[domain.Bucket][]byte
}

func NewMemoryBucketStore() *MemoryBucketStore {
	return &MemoryBucketStore{buckets: make(map[domain.Bucket][]byte)}
}

func (r *MemoryBucketStore) Load(_ context.Context, bucket domain.Bucket) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.buckets[bucket]
	if !ok {
		return nil, domain.ErrBucketNotFound
	}
	return append([]byte(nil), data...), nil
}

func (r *MemoryBucketStore) Save(_ context.Context, buckets map[domain.Bucket][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for bucket, data := range buckets {
		r.buckets[bucket] = append([]byte(nil), data...)
	}
	return nil
}
