package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// Store owns the commodity, movement and alert collections. Operations are
// serialized; each mutation builds new collections, persists them and only
// then replaces the in-memory state.
type Store struct {
	mu      sync.Mutex
	buckets domain.BucketStore
	now     func() time.Time
	newID   func() string

	commodities []domain.Commodity
	movements   []domain.StockMovement
	alerts      []domain.Alert
	last        time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates an empty store. Call Load before serving requests.
func New(buckets domain.BucketStore, opts ...Option) *Store {
	s := &Store{
		buckets: buckets,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MovementResult is the outcome of recording a movement
type MovementResult struct {
	Movement  domain.StockMovement
	Commodity domain.Commodity
	Alerts    []domain.Alert
}

type state struct {
	commodities []domain.Commodity
	movements   []domain.StockMovement
	alerts      []domain.Alert
}

// Load reads the three buckets. A missing commodities bucket yields the demo
// set; a malformed bucket is logged and replaced by its default. The alert
// generator then runs once over the loaded commodities.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var commodities []domain.Commodity
	seeded, err := loadBucket(ctx, s.buckets, domain.BucketCommodities, &commodities)
	if err != nil {
		return err
	}
	if seeded {
		commodities = domain.DemoCommodities(s.now())
	}

	var movements []domain.StockMovement
	if _, err := loadBucket(ctx, s.buckets, domain.BucketMovements, &movements); err != nil {
		return err
	}
	for i := range movements {
		m := &movements[i]
		if m.Delta == 0 && m.NewStock != m.PreviousStock {
			m.Delta = m.NewStock - m.PreviousStock
		}
		if m.Timestamp.After(s.last) {
			s.last = m.Timestamp
		}
	}

	var alerts []domain.Alert
	if _, err := loadBucket(ctx, s.buckets, domain.BucketAlerts, &alerts); err != nil {
		return err
	}

	s.commodities = commodities
	s.movements = movements
	s.alerts = alerts

	next := s.current()
	raised := s.scan(&next, s.clock())
	if len(raised) > 0 {
		if err := s.commit(ctx, next); err != nil {
			return err
		}
	}

	logger.Logger.Info().
		Int("commodities", len(s.commodities)).
		Int("movements", len(s.movements)).
		Int("alerts", len(s.alerts)).
		Int("raised", len(raised)).
		Bool("seeded", seeded).
		Msg("Inventory loaded")
	return nil
}

// loadBucket decodes a bucket into dst, a pointer to a slice. fallback is
// true when the bucket was missing or malformed; dst is only written when
// the whole bucket decodes.
func loadBucket[T any](ctx context.Context, buckets domain.BucketStore, bucket domain.Bucket, dst *[]T) (fallback bool, err error) {
	data, err := buckets.Load(ctx, bucket)
	if errors.Is(err, domain.ErrBucketNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", bucket, err)
	}

	var decoded []T
	if err := json.Unmarshal(data, &decoded); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("bucket", string(bucket)).
			Msg("Malformed bucket, falling back to defaults")
		return true, nil
	}
	*dst = decoded
	return false, nil
}

// clock returns the current time, never earlier than the last one handed out
func (s *Store) clock() time.Time {
	now := s.now()
	if now.Before(s.last) {
		now = s.last
	}
	s.last = now
	return now
}

func (s *Store) current() state {
	return state{commodities: s.commodities, movements: s.movements, alerts: s.alerts}
}

// commit persists next and, on success, makes it the current state
func (s *Store) commit(ctx context.Context, next state) error {
	payload := make(map[domain.Bucket][]byte, len(domain.Buckets))

	for bucket, v := range map[domain.Bucket]any{
		domain.BucketCommodities: nonNil(next.commodities),
		domain.BucketMovements:   nonNil(next.movements),
		domain.BucketAlerts:      nonNil(next.alerts),
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		payload[bucket] = data
	}

	if err := s.buckets.Save(ctx, payload); err != nil {
		return fmt.Errorf("persist inventory: %w", err)
	}

	s.commodities = next.commodities
	s.movements = next.movements
	s.alerts = next.alerts
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// scan appends alerts for the commodities in next and returns the new ones
func (s *Store) scan(next *state, now time.Time) []domain.Alert {
	raised := domain.ScanAlerts(next.commodities, next.alerts, now, s.newID)
	if len(raised) == 0 {
		return nil
	}
	alerts := make([]domain.Alert, 0, len(next.alerts)+len(raised))
	alerts = append(alerts, next.alerts...)
	next.alerts = append(alerts, raised...)
	return raised
}

func (s *Store) indexOf(id string) int {
	for i, c := range s.commodities {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func replaceAt[T any](items []T, i int, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[i] = v
	return out
}

// AddCommodity validates and appends a new commodity
func (s *Store) AddCommodity(ctx context.Context, in domain.CommodityInput) (domain.Commodity, []domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	c, err := domain.NewCommodity(s.newID(), in, now)
	if err != nil {
		return domain.Commodity{}, nil, err
	}

	next := s.current()
	next.commodities = append(append(make([]domain.Commodity, 0, len(s.commodities)+1), s.commodities...), c)
	raised := s.scan(&next, now)

	if err := s.commit(ctx, next); err != nil {
		return domain.Commodity{}, nil, err
	}
	return c, raised, nil
}

// UpdateCommodity merges patch into the commodity and re-validates it
func (s *Store) UpdateCommodity(ctx context.Context, id string, patch domain.CommodityPatch) (domain.Commodity, []domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Commodity{}, nil, domain.ErrCommodityNotFound
	}

	now := s.clock()
	updated, err := s.commodities[i].Apply(patch, now)
	if err != nil {
		return domain.Commodity{}, nil, err
	}

	next := s.current()
	next.commodities = replaceAt(s.commodities, i, updated)
	raised := s.scan(&next, now)

	if err := s.commit(ctx, next); err != nil {
		return domain.Commodity{}, nil, err
	}
	return updated, raised, nil
}

// DeleteCommodity removes the commodity and its movements. Its alerts are kept.
func (s *Store) DeleteCommodity(ctx context.Context, id string) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrCommodityNotFound
	}

	now := s.clock()
	next := s.current()

	next.commodities = make([]domain.Commodity, 0, len(s.commodities)-1)
	next.commodities = append(next.commodities, s.commodities[:i]...)
	next.commodities = append(next.commodities, s.commodities[i+1:]...)

	next.movements = make([]domain.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		if m.CommodityID != id {
			next.movements = append(next.movements, m)
		}
	}

	raised := s.scan(&next, now)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return raised, nil
}

// RecordMovement appends a ledger entry, updates the commodity stock and
// re-scans for alerts, all in one persisted step.
func (s *Store) RecordMovement(ctx context.Context, req domain.MovementRequest) (MovementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := req.Validate(); err != nil {
		return MovementResult{}, err
	}

	i := s.indexOf(req.CommodityID)
	if i < 0 {
		return MovementResult{}, domain.ErrCommodityNotFound
	}

	now := s.clock()
	movement, updated, err := domain.ApplyMovement(s.commodities[i], req, s.newID(), now)
	if err != nil {
		return MovementResult{}, err
	}

	next := s.current()
	next.commodities = replaceAt(s.commodities, i, updated)
	next.movements = append(append(make([]domain.StockMovement, 0, len(s.movements)+1), s.movements...), movement)
	raised := s.scan(&next, now)

	if err := s.commit(ctx, next); err != nil {
		return MovementResult{}, err
	}
	return MovementResult{Movement: movement, Commodity: updated, Alerts: raised}, nil
}

// AcknowledgeAlert marks an alert as acknowledged
func (s *Store) AcknowledgeAlert(ctx context.Context, id string) (domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts, changed, err := domain.AcknowledgeAlert(s.alerts, id)
	if err != nil {
		return domain.Alert{}, err
	}

	var acked domain.Alert
	for _, a := range alerts {
		if a.ID == id {
			acked = a
			break
		}
	}
	if !changed {
		return acked, nil
	}

	next := s.current()
	next.alerts = alerts
	if err := s.commit(ctx, next); err != nil {
		return domain.Alert{}, err
	}
	return acked, nil
}

// ScanAlerts runs the alert generator over the current commodities
func (s *Store) ScanAlerts(ctx context.Context) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current()
	raised := s.scan(&next, s.clock())
	if len(raised) == 0 {
		return nil, nil
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return raised, nil
}

// Commodities returns a copy of all commodities in insertion order
func (s *Store) Commodities() []domain.Commodity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Commodity(nil), s.commodities...)
}

// Commodity returns one commodity by id
func (s *Store) Commodity(id string) (domain.Commodity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Commodity{}, domain.ErrCommodityNotFound
	}
	return s.commodities[i], nil
}

// Movements returns a copy of the ledger in recording order
func (s *Store) Movements() []domain.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.StockMovement(nil), s.movements...)
}

// Alerts returns a copy of all alerts in creation order
func (s *Store) Alerts() []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Alert(nil), s.alerts...)
}

// Summary returns the dashboard summary
func (s *Store) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Summarize(s.commodities, s.alerts)
}

// Trend returns the daily stock series for one commodity
func (s *Store) Trend(id string, windowDays int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return nil, domain.ErrCommodityNotFound
	}
	return domain.Trend(s.movements, id, s.now(), windowDays), nil
}
