package command

import (
	"context"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// EventPublisher announces committed inventory changes
type EventPublisher interface {
	PublishMovementRecorded(ctx context.Context, movement domain.StockMovement, commodity domain.Commodity) error
	PublishAlertRaised(ctx context.Context, alert domain.Alert) error
}

// publishAlerts is best-effort; the change is already committed
func publishAlerts(ctx context.Context, publisher EventPublisher, alerts []domain.Alert) {
	for _, alert := range alerts {
		if err := publisher.PublishAlertRaised(ctx, alert); err != nil {
			logger.WithContext(ctx).Warn().
				Err(err).
				Str("alert_id", alert.ID).
				Str("commodity_id", alert.CommodityID).
				Msg("Failed to publish alert event")
		}
	}
}
