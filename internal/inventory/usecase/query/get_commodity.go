package query

import (
	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// GetCommodityQuery represents the query to get a commodity by ID
type GetCommodityQuery struct {
	ID string
}

// GetCommodityHandler handles get commodity query
type GetCommodityHandler struct {
	store *store.Store
}

// NewGetCommodityHandler creates a new get commodity handler
func NewGetCommodityHandler(s *store.Store) *GetCommodityHandler {
	return &GetCommodityHandler{store: s}
}

// Handle executes the get commodity query
func (h *GetCommodityHandler) Handle(query GetCommodityQuery) (domain.Commodity, error) {
	return h.store.Commodity(query.ID)
}
