package command

import (
	"context"
	"fmt"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// ScanAlertsCommand asks for a fresh low-stock scan
type ScanAlertsCommand struct{}

// ScanAlertsHandler handles scan alerts command
type ScanAlertsHandler struct {
	store     *store.Store
	publisher EventPublisher
}

// NewScanAlertsHandler creates a new scan alerts handler
func NewScanAlertsHandler(s *store.Store, publisher EventPublisher) *ScanAlertsHandler {
	return &ScanAlertsHandler{store: s, publisher: publisher}
}

// Handle returns the alerts raised by the scan
func (h *ScanAlertsHandler) Handle(ctx context.Context, _ ScanAlertsCommand) ([]domain.Alert, error) {
	raised, err := h.store.ScanAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan alerts: %w", err)
	}

	publishAlerts(ctx, h.publisher, raised)
	if raised == nil {
		raised = []domain.Alert{}
	}
	return raised, nil
}
