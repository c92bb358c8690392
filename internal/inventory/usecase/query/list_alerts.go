package query

import (
	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// ListAlertsQuery lists alerts, optionally only the unacknowledged ones
type ListAlertsQuery struct {
	UnacknowledgedOnly bool
}

// ListAlertsHandler handles list alerts query
type ListAlertsHandler struct {
	store *store.Store
}

// NewListAlertsHandler creates a new list alerts handler
func NewListAlertsHandler(s *store.Store) *ListAlertsHandler {
	return &ListAlertsHandler{store: s}
}

// Handle returns alerts newest first
func (h *ListAlertsHandler) Handle(query ListAlertsQuery) []domain.Alert {
	alerts := newestAlertsFirst(h.store.Alerts())
	if !query.UnacknowledgedOnly {
		return alerts
	}

	open := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if !a.Acknowledged {
			open = append(open, a)
		}
	}
	return open
}

// newestAlertsFirst reverses creation order
func newestAlertsFirst(alerts []domain.Alert) []domain.Alert {
	out := make([]domain.Alert, len(alerts))
	for i, a := range alerts {
		out[len(alerts)-1-i] = a
	}
	return out
}
