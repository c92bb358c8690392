package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// AcknowledgeAlertCommand represents the command to acknowledge an alert
type AcknowledgeAlertCommand struct {
	ID string
}

// AcknowledgeAlertHandler handles acknowledge alert command
type AcknowledgeAlertHandler struct {
	store *store.Store
}

// NewAcknowledgeAlertHandler creates a new acknowledge alert handler
func NewAcknowledgeAlertHandler(s *store.Store) *AcknowledgeAlertHandler {
	return &AcknowledgeAlertHandler{store: s}
}

// Handle executes the acknowledge alert command
func (h *AcknowledgeAlertHandler) Handle(ctx context.Context, cmd AcknowledgeAlertCommand) (domain.Alert, error) {
	alert, err := h.store.AcknowledgeAlert(ctx, cmd.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAlertNotFound) {
			return domain.Alert{}, err
		}
		return domain.Alert{}, fmt.Errorf("failed to acknowledge alert: %w", err)
	}
	return alert, nil
}
