package query

import (
	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// RecentAlertsLimit is the number of alerts the dashboard shows
const RecentAlertsLimit = 5

// GetStatsQuery represents the query to get dashboard statistics
type GetStatsQuery struct{}

// DashboardStats is the dashboard readout
type DashboardStats struct {
	domain.Summary
	RecentAlerts []domain.Alert `json:"recentAlerts"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	store *store.Store
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(s *store.Store) *GetStatsHandler {
	return &GetStatsHandler{store: s}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(_ GetStatsQuery) DashboardStats {
	alerts := newestAlertsFirst(h.store.Alerts())
	if len(alerts) > RecentAlertsLimit {
		alerts = alerts[:RecentAlertsLimit]
	}

	return DashboardStats{
		Summary:      h.store.Summary(),
		RecentAlerts: alerts,
	}
}
