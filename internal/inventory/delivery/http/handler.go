package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/command"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/query"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// CommandHandlers groups the write side
type CommandHandlers struct {
	Create      *command.CreateCommodityHandler
	Update      *command.UpdateCommodityHandler
	Delete      *command.DeleteCommodityHandler
	Record      *command.RecordMovementHandler
	Acknowledge *command.AcknowledgeAlertHandler
	Scan        *command.ScanAlertsHandler
}

// QueryHandlers groups the read side
type QueryHandlers struct {
	Get       *query.GetCommodityHandler
	List      *query.ListCommoditiesHandler
	Stats     *query.GetStatsHandler
	Trend     *query.GetTrendHandler
	Movements *query.ListMovementsHandler
	Alerts    *query.ListAlertsHandler
}

// InventoryHandler handles HTTP requests for the inventory dashboard
type InventoryHandler struct {
	commands *CommandHandlers
	queries  *QueryHandlers
	metrics  *metrics
}

// NewInventoryHandler creates a new inventory handler and registers its request metrics on reg
func NewInventoryHandler(commands *CommandHandlers, queries *QueryHandlers, reg prometheus.Registerer) *InventoryHandler {
	return &InventoryHandler{
		commands: commands,
		queries:  queries,
		metrics:  newMetrics(reg),
	}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/commodities", h.metricsMiddleware("/api/commodities", AuthMiddleware(h.ListCommodities))).Methods("GET")
	router.HandleFunc("/api/commodities", h.metricsMiddleware("/api/commodities", AdminMiddleware(h.CreateCommodity))).Methods("POST")
	router.HandleFunc("/api/commodities/{id}", h.metricsMiddleware("/api/commodities/{id}", AuthMiddleware(h.GetCommodity))).Methods("GET")
	router.HandleFunc("/api/commodities/{id}", h.metricsMiddleware("/api/commodities/{id}", AdminMiddleware(h.UpdateCommodity))).Methods("PUT")
	router.HandleFunc("/api/commodities/{id}", h.metricsMiddleware("/api/commodities/{id}", AdminMiddleware(h.DeleteCommodity))).Methods("DELETE")
	router.HandleFunc("/api/commodities/{id}/trend", h.metricsMiddleware("/api/commodities/{id}/trend", AuthMiddleware(h.GetTrend))).Methods("GET")

	router.HandleFunc("/api/movements", h.metricsMiddleware("/api/movements", AuthMiddleware(h.ListMovements))).Methods("GET")
	router.HandleFunc("/api/movements", h.metricsMiddleware("/api/movements", AdminMiddleware(h.RecordMovement))).Methods("POST")

	router.HandleFunc("/api/alerts", h.metricsMiddleware("/api/alerts", AuthMiddleware(h.ListAlerts))).Methods("GET")
	router.HandleFunc("/api/alerts/scan", h.metricsMiddleware("/api/alerts/scan", AuthMiddleware(h.ScanAlerts))).Methods("POST")
	router.HandleFunc("/api/alerts/{id}/acknowledge", h.metricsMiddleware("/api/alerts/{id}/acknowledge", AuthMiddleware(h.AcknowledgeAlert))).Methods("PATCH")

	router.HandleFunc("/api/dashboard/stats", h.metricsMiddleware("/api/dashboard/stats", AuthMiddleware(h.GetStats))).Methods("GET")
}

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, check HealthCheck) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.Logger.Warn().Err(err).Msg("Health check failed")
				respondError(w, http.StatusServiceUnavailable, "Storage unavailable")
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Inventory service is healthy",
		})
	}).Methods("GET")
}

// ListCommodities handles GET /api/commodities
func (h *InventoryHandler) ListCommodities(w http.ResponseWriter, r *http.Request) {
	commodities, err := h.queries.List.Handle(query.ListCommoditiesQuery{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		respondDomainError(w, r, err, "Failed to list commodities")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    commodities,
	})
}

// CreateCommodity handles POST /api/commodities
func (h *InventoryHandler) CreateCommodity(w http.ResponseWriter, r *http.Request) {
	var req domain.CommodityInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	commodity, err := h.commands.Create.Handle(r.Context(), command.CreateCommodityCommand{Input: req})
	if err != nil {
		respondDomainError(w, r, err, "Failed to create commodity")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Commodity created successfully",
		Data:    commodity,
	})
}

// GetCommodity handles GET /api/commodities/{id}
func (h *InventoryHandler) GetCommodity(w http.ResponseWriter, r *http.Request) {
	commodity, err := h.queries.Get.Handle(query.GetCommodityQuery{ID: mux.Vars(r)["id"]})
	if err != nil {
		respondDomainError(w, r, err, "Failed to get commodity")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    commodity,
	})
}

// UpdateCommodity handles PUT /api/commodities/{id}
func (h *InventoryHandler) UpdateCommodity(w http.ResponseWriter, r *http.Request) {
	var patch domain.CommodityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	commodity, err := h.commands.Update.Handle(r.Context(), command.UpdateCommodityCommand{
		ID:    mux.Vars(r)["id"],
		Patch: patch,
	})
	if err != nil {
		respondDomainError(w, r, err, "Failed to update commodity")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Commodity updated successfully",
		Data:    commodity,
	})
}

// DeleteCommodity handles DELETE /api/commodities/{id}
func (h *InventoryHandler) DeleteCommodity(w http.ResponseWriter, r *http.Request) {
	err := h.commands.Delete.Handle(r.Context(), command.DeleteCommodityCommand{ID: mux.Vars(r)["id"]})
	if err != nil {
		respondDomainError(w, r, err, "Failed to delete commodity")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Commodity deleted successfully",
	})
}

// GetTrend handles GET /api/commodities/{id}/trend
func (h *InventoryHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondFieldErrors(w, map[string]string{"days": "Days must be a number"})
			return
		}
		days = n
	}

	trend, err := h.queries.Trend.Handle(query.GetTrendQuery{CommodityID: mux.Vars(r)["id"], Days: days})
	if err != nil {
		respondDomainError(w, r, err, "Failed to build trend")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    trend,
	})
}

// ListMovements handles GET /api/movements
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondFieldErrors(w, map[string]string{"limit": "Limit must be a non-negative number"})
			return
		}
		limit = n
	}

	movements := h.queries.Movements.Handle(query.ListMovementsQuery{
		CommodityID: r.URL.Query().Get("commodity_id"),
		Limit:       limit,
	})

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    movements,
	})
}

// RecordMovement handles POST /api/movements
func (h *InventoryHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CommodityID string              `json:"commodityId"`
		Kind        domain.MovementKind `json:"type"`
		Quantity    int                 `json:"quantity"`
		Reason      string              `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.commands.Record.Handle(r.Context(), command.RecordMovementCommand{
		CommodityID: req.CommodityID,
		Kind:        req.Kind,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		PerformedBy: actor(r.Context()),
	})
	if err != nil {
		respondDomainError(w, r, err, "Failed to record movement")
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Stock movement recorded successfully",
		Data: map[string]interface{}{
			"movement":  res.Movement,
			"commodity": res.Commodity,
			"alerts":    nonNilAlerts(res.Alerts),
		},
	})
}

// ListAlerts handles GET /api/alerts
func (h *InventoryHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	unacknowledged := false
	if raw := r.URL.Query().Get("unacknowledged"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			respondFieldErrors(w, map[string]string{"unacknowledged": "Must be true or false"})
			return
		}
		unacknowledged = b
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    h.queries.Alerts.Handle(query.ListAlertsQuery{UnacknowledgedOnly: unacknowledged}),
	})
}

// ScanAlerts handles POST /api/alerts/scan
func (h *InventoryHandler) ScanAlerts(w http.ResponseWriter, r *http.Request) {
	raised, err := h.commands.Scan.Handle(r.Context(), command.ScanAlertsCommand{})
	if err != nil {
		respondDomainError(w, r, err, "Failed to scan alerts")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: strconv.Itoa(len(raised)) + " new alert(s)",
		Data:    raised,
	})
}

// AcknowledgeAlert handles PATCH /api/alerts/{id}/acknowledge
func (h *InventoryHandler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.commands.Acknowledge.Handle(r.Context(), command.AcknowledgeAlertCommand{ID: mux.Vars(r)["id"]})
	if err != nil {
		respondDomainError(w, r, err, "Failed to acknowledge alert")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Alert acknowledged",
		Data:    alert,
	})
}

// GetStats handles GET /api/dashboard/stats
func (h *InventoryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    h.queries.Stats.Handle(query.GetStatsQuery{}),
	})
}

func nonNilAlerts(alerts []domain.Alert) []domain.Alert {
	if alerts == nil {
		return []domain.Alert{}
	}
	return alerts
}
