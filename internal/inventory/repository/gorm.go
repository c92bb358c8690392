package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
)

// bucketRecord is one row of inventory_buckets
type bucketRecord struct {
	Name      string         `gorm:"primaryKey;size:64"`
	Payload   datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (bucketRecord) TableName() string {
	return "inventory_buckets"
}

// GormBucketStore keeps every bucket as a JSON row in a single table
type GormBucketStore struct {
	db *gorm.DB
}

func NewGormBucketStore(db *gorm.DB) *GormBucketStore {
	return &GormBucketStore{db: db}
}

func (r *GormBucketStore) AutoMigrate() error {
	return r.db.AutoMigrate(&bucketRecord{})
}

func (r *GormBucketStore) Load(ctx context.Context, bucket domain.Bucket) ([]byte, error) {
	var rec bucketRecord
	err := r.db.WithContext(ctx).Where("name = ?", string(bucket)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBucketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load bucket %s: %w", bucket, err)
	}
	return []byte(rec.Payload), nil
}

// Save upserts all given buckets in one transaction
func (r *GormBucketStore) Save(ctx context.Context, buckets map[domain.Bucket][]byte) error {
	names := make([]string, 0, len(buckets))
	for b := range buckets {
		names = append(names, string(b))
	}
	sort.Strings(names)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, name := range names {
			rec := bucketRecord{
				Name:      name,
				Payload:   datatypes.JSON(buckets[domain.Bucket(name)]),
				UpdatedAt: now,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
			}).Create(&rec).Error
			if err != nil {
				return fmt.Errorf("save bucket %s: %w", name, err)
			}
		}
		return nil
	})
}
