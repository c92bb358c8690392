package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// RecordMovementCommand represents a stock receipt, consumption or count
type RecordMovementCommand struct {
	CommodityID string
	Kind        domain.MovementKind
	Quantity    int
	Reason      string
	PerformedBy string
}

// RecordMovementHandler handles record movement command
type RecordMovementHandler struct {
	store     *store.Store
	publisher EventPublisher
}

// NewRecordMovementHandler creates a new record movement handler
func NewRecordMovementHandler(s *store.Store, publisher EventPublisher) *RecordMovementHandler {
	return &RecordMovementHandler{store: s, publisher: publisher}
}

// Handle records the movement and announces it with any alerts it raised
func (h *RecordMovementHandler) Handle(ctx context.Context, cmd RecordMovementCommand) (store.MovementResult, error) {
	res, err := h.store.RecordMovement(ctx, domain.MovementRequest{
		CommodityID: cmd.CommodityID,
		Kind:        cmd.Kind,
		Quantity:    cmd.Quantity,
		Reason:      cmd.Reason,
		PerformedBy: cmd.PerformedBy,
	})
	if err != nil {
		if domain.IsValidationError(err) || errors.Is(err, domain.ErrCommodityNotFound) {
			return store.MovementResult{}, err
		}
		return store.MovementResult{}, fmt.Errorf("failed to record movement: %w", err)
	}

	log := logger.WithContext(ctx)
	if res.Movement.Clamped() {
		log.Warn().
			Str("commodity_id", res.Movement.CommodityID).
			Int("requested", res.Movement.Quantity).
			Int("applied", -res.Movement.Delta).
			Msg("Outbound movement clamped at zero stock")
	}

	if err := h.publisher.PublishMovementRecorded(ctx, res.Movement, res.Commodity); err != nil {
		log.Warn().
			Err(err).
			Str("movement_id", res.Movement.ID).
			Msg("Failed to publish movement event")
	}
	publishAlerts(ctx, h.publisher, res.Alerts)

	return res, nil
}
