package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// UpdateCommodityCommand represents the command to edit a commodity
type UpdateCommodityCommand struct {
	ID    string
	Patch domain.CommodityPatch
}

// UpdateCommodityHandler handles update commodity command
type UpdateCommodityHandler struct {
	store     *store.Store
	publisher EventPublisher
}

// NewUpdateCommodityHandler creates a new update commodity handler
func NewUpdateCommodityHandler(s *store.Store, publisher EventPublisher) *UpdateCommodityHandler {
	return &UpdateCommodityHandler{store: s, publisher: publisher}
}

// Handle executes the update commodity command
func (h *UpdateCommodityHandler) Handle(ctx context.Context, cmd UpdateCommodityCommand) (domain.Commodity, error) {
	if cmd.ID == "" {
		return domain.Commodity{}, domain.ErrCommodityNotFound
	}

	commodity, raised, err := h.store.UpdateCommodity(ctx, cmd.ID, cmd.Patch)
	if err != nil {
		if domain.IsValidationError(err) || errors.Is(err, domain.ErrCommodityNotFound) {
			return domain.Commodity{}, err
		}
		return domain.Commodity{}, fmt.Errorf("failed to update commodity: %w", err)
	}

	publishAlerts(ctx, h.publisher, raised)
	return commodity, nil
}
