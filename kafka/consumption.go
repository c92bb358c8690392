package kafka

import (
	"context"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/command"
)

// DefaultConsumer is recorded as the actor when an event names none
const DefaultConsumer = "consumption-feed"

// NewConsumptionHandler turns commodity.consumed events into outbound movements
func NewConsumptionHandler(h *command.RecordMovementHandler) EventHandler {
	return func(ctx context.Context, event CommodityConsumedEvent) error {
		performedBy := event.PerformedBy
		if performedBy == "" {
			performedBy = DefaultConsumer
		}

		_, err := h.Handle(ctx, command.RecordMovementCommand{
			CommodityID: event.CommodityID,
			Kind:        domain.MovementOutbound,
			Quantity:    event.Quantity,
			Reason:      event.Reason,
			PerformedBy: performedBy,
		})
		return err
	}
}
