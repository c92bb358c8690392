package command

import (
	"context"
	"fmt"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// CreateCommodityCommand represents the command to add a commodity
type CreateCommodityCommand struct {
	Input domain.CommodityInput
}

// CreateCommodityHandler handles create commodity command
type CreateCommodityHandler struct {
	store     *store.Store
	publisher EventPublisher
}

// NewCreateCommodityHandler creates a new create commodity handler
func NewCreateCommodityHandler(s *store.Store, publisher EventPublisher) *CreateCommodityHandler {
	return &CreateCommodityHandler{store: s, publisher: publisher}
}

// Handle executes the create commodity command
func (h *CreateCommodityHandler) Handle(ctx context.Context, cmd CreateCommodityCommand) (domain.Commodity, error) {
	commodity, raised, err := h.store.AddCommodity(ctx, cmd.Input)
	if err != nil {
		if domain.IsValidationError(err) {
			return domain.Commodity{}, err
		}
		return domain.Commodity{}, fmt.Errorf("failed to create commodity: %w", err)
	}

	publishAlerts(ctx, h.publisher, raised)
	return commodity, nil
}
