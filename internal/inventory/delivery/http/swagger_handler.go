package http

import (
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for the commodity tracker
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router) {
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

// ListCommoditiesDoc godoc
// @Summary List commodities
// @Description List commodities filtered by a name/category search and a status
// @Tags Commodities
// @Security BearerAuth
// @Produce json
// @Param search query string false "Case-insensitive match on name or category"
// @Param status query string false "all, critical, low, normal or overstocked"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string,errors=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/commodities [get]
func (h *InventoryHandler) ListCommoditiesDoc() {}

// CreateCommodityDoc godoc
// @Summary Create commodity
// @Description Add a commodity (Admin only)
// @Tags Commodities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,category=string,description=string,currentStock=int,minThreshold=int,maxThreshold=int,unit=string,unitPrice=number,supplier=string} true "Commodity data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/commodities [post]
func (h *InventoryHandler) CreateCommodityDoc() {}

// GetCommodityDoc godoc
// @Summary Get commodity
// @Tags Commodities
// @Security BearerAuth
// @Produce json
// @Param id path string true "Commodity ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/commodities/{id} [get]
func (h *InventoryHandler) GetCommodityDoc() {}

// UpdateCommodityDoc godoc
// @Summary Update commodity
// @Description Partial update; the merged commodity is validated again (Admin only)
// @Tags Commodities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Commodity ID"
// @Param request body object true "Fields to change"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/commodities/{id} [put]
func (h *InventoryHandler) UpdateCommodityDoc() {}

// DeleteCommodityDoc godoc
// @Summary Delete commodity
// @Description Removes the commodity and its movements (Admin only)
// @Tags Commodities
// @Security BearerAuth
// @Produce json
// @Param id path string true "Commodity ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/commodities/{id} [delete]
func (h *InventoryHandler) DeleteCommodityDoc() {}

// GetTrendDoc godoc
// @Summary Stock trend
// @Description One stock level per day, oldest first
// @Tags Commodities
// @Security BearerAuth
// @Produce json
// @Param id path string true "Commodity ID"
// @Param days query int false "Window in days (default 7, max 365)"
// @Success 200 {object} object{success=bool,data=object{commodityId=string,days=int,levels=array}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/commodities/{id}/trend [get]
func (h *InventoryHandler) GetTrendDoc() {}

// ListMovementsDoc godoc
// @Summary List stock movements
// @Description Newest first
// @Tags Movements
// @Security BearerAuth
// @Produce json
// @Param commodity_id query string false "Commodity ID"
// @Param limit query int false "Maximum number of movements"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/movements [get]
func (h *InventoryHandler) ListMovementsDoc() {}

// RecordMovementDoc godoc
// @Summary Record stock movement
// @Description Apply an in, out or adjustment movement (Admin only)
// @Tags Movements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{commodityId=string,type=string,quantity=int,reason=string} true "Movement"
// @Success 201 {object} object{success=bool,message=string,data=object{movement=object,commodity=object,alerts=array}}
// @Failure 400 {object} object{success=bool,error=string,errors=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/movements [post]
func (h *InventoryHandler) RecordMovementDoc() {}

// ListAlertsDoc godoc
// @Summary List alerts
// @Tags Alerts
// @Security BearerAuth
// @Produce json
// @Param unacknowledged query bool false "Only unacknowledged alerts"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/alerts [get]
func (h *InventoryHandler) ListAlertsDoc() {}

// ScanAlertsDoc godoc
// @Summary Scan for alerts
// @Description Raise alerts for low and critical commodities without an open alert
// @Tags Alerts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=array}
// @Router /api/alerts/scan [post]
func (h *InventoryHandler) ScanAlertsDoc() {}

// AcknowledgeAlertDoc godoc
// @Summary Acknowledge alert
// @Tags Alerts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/alerts/{id}/acknowledge [patch]
func (h *InventoryHandler) AcknowledgeAlertDoc() {}

// GetStatsDoc godoc
// @Summary Dashboard statistics
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/dashboard/stats [get]
func (h *InventoryHandler) GetStatsDoc() {}

// HealthCheckDoc godoc
// @Summary Health check
// @Description Check service health and storage connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *InventoryHandler) HealthCheckDoc() {}
