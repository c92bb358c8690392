package query

import (
	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// MaxTrendDays caps the requested window
const MaxTrendDays = 365

// GetTrendQuery represents the query for a commodity's daily stock series
type GetTrendQuery struct {
	CommodityID string
	Days        int
}

// TrendResult is the series together with its window
type TrendResult struct {
	CommodityID string `json:"commodityId"`
	Days        int    `json:"days"`
	Levels      []int  `json:"levels"`
}

// GetTrendHandler handles get trend query
type GetTrendHandler struct {
	store *store.Store
}

// NewGetTrendHandler creates a new get trend handler
func NewGetTrendHandler(s *store.Store) *GetTrendHandler {
	return &GetTrendHandler{store: s}
}

// Handle executes the get trend query. A missing window means the last week.
func (h *GetTrendHandler) Handle(query GetTrendQuery) (TrendResult, error) {
	days := query.Days
	if days == 0 {
		days = domain.DefaultTrendDays
	}
	if days < 0 || days > MaxTrendDays {
		return TrendResult{}, &domain.ValidationError{Fields: map[string]string{
			"days": "Days must be between 1 and 365",
		}}
	}

	levels, err := h.store.Trend(query.CommodityID, days)
	if err != nil {
		return TrendResult{}, err
	}

	return TrendResult{CommodityID: query.CommodityID, Days: days, Levels: levels}, nil
}
