package query

import (
	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// ListMovementsQuery lists ledger entries, optionally for one commodity.
// Limit <= 0 returns everything.
type ListMovementsQuery struct {
	CommodityID string
	Limit       int
}

// ListMovementsHandler handles list movements query
type ListMovementsHandler struct {
	store *store.Store
}

// NewListMovementsHandler creates a new list movements handler
func NewListMovementsHandler(s *store.Store) *ListMovementsHandler {
	return &ListMovementsHandler{store: s}
}

// Handle returns movements newest first
func (h *ListMovementsHandler) Handle(query ListMovementsQuery) []domain.StockMovement {
	movements := h.store.Movements()

	result := make([]domain.StockMovement, 0, len(movements))
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		if query.CommodityID != "" && m.CommodityID != query.CommodityID {
			continue
		}
		result = append(result, m)
		if query.Limit > 0 && len(result) == query.Limit {
			break
		}
	}
	return result
}
