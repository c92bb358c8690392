package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// DeleteCommodityCommand represents the command to delete a commodity
type DeleteCommodityCommand struct {
	ID string
}

// DeleteCommodityHandler handles delete commodity command
type DeleteCommodityHandler struct {
	store     *store.Store
	publisher EventPublisher
}

// NewDeleteCommodityHandler creates a new delete commodity handler
func NewDeleteCommodityHandler(s *store.Store, publisher EventPublisher) *DeleteCommodityHandler {
	return &DeleteCommodityHandler{store: s, publisher: publisher}
}

// Handle removes the commodity together with its movements
func (h *DeleteCommodityHandler) Handle(ctx context.Context, cmd DeleteCommodityCommand) error {
	raised, err := h.store.DeleteCommodity(ctx, cmd.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCommodityNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete commodity: %w", err)
	}

	publishAlerts(ctx, h.publisher, raised)
	return nil
}
