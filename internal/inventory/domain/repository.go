package domain

import "context"

// Bucket names a persisted collection
type Bucket string

const (
	BucketCommodities Bucket = "inventory_commodities"
	BucketMovements   Bucket = "inventory_movements"
	BucketAlerts      Bucket = "inventory_alerts"
)

// Buckets lists every bucket the store reads on load
var Buckets = []Bucket{BucketCommodities, BucketMovements, BucketAlerts}

// BucketStore defines the contract for the key-value persistence gateway.
// Load returns ErrBucketNotFound for a bucket that was never saved. Save
// writes all given buckets or none of them.
type BucketStore interface {
	Load(ctx context.Context, bucket Bucket) ([]byte, error)
	Save(ctx context.Context, buckets map[Bucket][]byte) error
}
