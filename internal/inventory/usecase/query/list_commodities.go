package query

import (
	"strings"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/store"
)

// StatusAll disables status filtering
const StatusAll = "all"

// ListCommoditiesQuery filters commodities by a name/category search term and status
type ListCommoditiesQuery struct {
	Search string
	Status string
}

// ListCommoditiesHandler handles list commodities query
type ListCommoditiesHandler struct {
	store *store.Store
}

// NewListCommoditiesHandler creates a new list commodities handler
func NewListCommoditiesHandler(s *store.Store) *ListCommoditiesHandler {
	return &ListCommoditiesHandler{store: s}
}

// Handle executes the list commodities query
func (h *ListCommoditiesHandler) Handle(query ListCommoditiesQuery) ([]domain.Commodity, error) {
	status := domain.Status(query.Status)
	filterStatus := query.Status != "" && query.Status != StatusAll
	if filterStatus && !status.Valid() {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"status": "Status must be one of all, critical, low, normal, overstocked",
		}}
	}

	term := strings.ToLower(strings.TrimSpace(query.Search))

	result := []domain.Commodity{}
	for _, c := range h.store.Commodities() {
		if filterStatus && c.Status() != status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Name), term) &&
			!strings.Contains(strings.ToLower(c.Category), term) {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}
