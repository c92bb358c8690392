package repository

import (
	"context"
	"errors"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingBucketStore wraps a BucketStore with tracing
type TracingBucketStore struct {
	next domain.BucketStore
}

// NewTracingBucketStore creates a new bucket store with tracing
func NewTracingBucketStore(next domain.BucketStore) *TracingBucketStore {
	return &TracingBucketStore{next: next}
}

// Load with tracing
func (r *TracingBucketStore) Load(ctx context.Context, bucket domain.Bucket) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "repository.Load",
		trace.WithAttributes(
			attribute.String("bucket.name", string(bucket)),
		),
	)
	defer span.End()

	data, err := r.next.Load(ctx, bucket)
	if errors.Is(err, domain.ErrBucketNotFound) {
		span.SetAttributes(attribute.Bool("bucket.found", false))
		return nil, err
	}
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("bucket.found", true),
		attribute.Int("bucket.bytes", len(data)),
	)
	return data, nil
}

// Save with tracing
func (r *TracingBucketStore) Save(ctx context.Context, buckets map[domain.Bucket][]byte) error {
	names := make([]string, 0, len(buckets))
	size := 0
	for b, data := range buckets {
		names = append(names, string(b))
		size += len(data)
	}
	sort.Strings(names)

	ctx, span := tracer.Start(ctx, "repository.Save",
		trace.WithAttributes(
			attribute.StringSlice("bucket.names", names),
			attribute.Int("bucket.bytes", size),
		),
	)
	defer span.End()

	if err := r.next.Save(ctx, buckets); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}
	return nil
}

// Helper function to add storage error details to span
func addDBErrorToSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage error: "+err.Error())
	}
}
