package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	inventorymetrics "github.com/tair/commodity-tracker/internal/inventory/metrics"
	"github.com/tair/commodity-tracker/internal/inventory/repository"
	"github.com/tair/commodity-tracker/internal/inventory/store"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/command"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/query"
	"github.com/tair/commodity-tracker/pkg/auth"
)

type nopPublisher struct{}

func (nopPublisher) PublishMovementRecorded(context.Context, domain.StockMovement, domain.Commodity) error {
	return nil
}

func (nopPublisher) PublishAlertRaised(context.Context, domain.Alert) error { return nil }

type testServer struct {
	router  *mux.Router
	handler *InventoryHandler
	reg     *prometheus.Registry
	admin   string
	user    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	auth.Configure("test-secret", time.Hour)

	s := store.New(repository.NewMemoryBucketStore())
	require.NoError(t, s.Load(context.Background()))

	reg := prometheus.NewRegistry()
	pub := inventorymetrics.NewInventoryMetrics(s, reg).Publisher(nopPublisher{})
	h := NewInventoryHandler(
		&CommandHandlers{
			Create:      command.NewCreateCommodityHandler(s, pub),
			Update:      command.NewUpdateCommodityHandler(s, pub),
			Delete:      command.NewDeleteCommodityHandler(s, pub),
			Record:      command.NewRecordMovementHandler(s, pub),
			Acknowledge: command.NewAcknowledgeAlertHandler(s),
			Scan:        command.NewScanAlertsHandler(s, pub),
		},
		&QueryHandlers{
			Get:       query.NewGetCommodityHandler(s),
			List:      query.NewListCommoditiesHandler(s),
			Stats:     query.NewGetStatsHandler(s),
			Trend:     query.NewGetTrendHandler(s),
			Movements: query.NewListMovementsHandler(s),
			Alerts:    query.NewListAlertsHandler(s),
		},
		reg,
	)

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	h.RegisterHealthCheck(router, nil)

	admin, err := auth.GenerateToken("1", "Admin User", "admin@inventory.com", auth.RoleAdmin)
	require.NoError(t, err)
	user, err := auth.GenerateToken("2", "Regular User", "user@inventory.com", auth.RoleUser)
	require.NoError(t, err)

	return &testServer{router: router, handler: h, reg: reg, admin: admin, user: user}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestHealthReportsStorageFailure(t *testing.T) {
	ts := newTestServer(t)
	router := mux.NewRouter()
	ts.handler.RegisterHealthCheck(router, func(context.Context) error { return assert.AnError })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/commodities", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)

	rec, _ = ts.do(t, http.MethodGet, "/api/commodities", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodDelete, "/api/commodities/1", ts.user, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required", resp.Error)

	rec, _ = ts.do(t, http.MethodGet, "/api/commodities/1", ts.admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "commodity must survive the rejected delete")
}

func TestListCommoditiesFilters(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/commodities?search=raw", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data, 2)

	rec, resp = ts.do(t, http.MethodGet, "/api/commodities?status=critical", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := resp.Data.([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Safety Helmets", items[0].(map[string]interface{})["name"])

	rec, resp = ts.do(t, http.MethodGet, "/api/commodities?status=bogus", ts.user, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Errors, "status")
}

func TestCreateCommodityValidation(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/commodities", ts.admin, domain.CommodityInput{
		Name:         "Copper Wire",
		Category:     "Electrical",
		Unit:         "rolls",
		Supplier:     "WireWorks",
		MinThreshold: 50,
		MaxThreshold: 50,
		UnitPrice:    0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Contains(t, resp.Errors, "maxThreshold")
	assert.Contains(t, resp.Errors, "unitPrice")
}

func TestCreateAndUpdateCommodity(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/commodities", ts.admin, domain.CommodityInput{
		Name:         "Copper Wire",
		Category:     "Electrical",
		Unit:         "rolls",
		Supplier:     "WireWorks",
		CurrentStock: 120,
		MinThreshold: 50,
		MaxThreshold: 300,
		UnitPrice:    42,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := resp.Data.(map[string]interface{})
	assert.Equal(t, "normal", created["status"])
	id := created["id"].(string)

	rec, resp = ts.do(t, http.MethodPut, "/api/commodities/"+id, ts.admin, map[string]int{"currentStock": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "critical", resp.Data.(map[string]interface{})["status"])

	rec, resp = ts.do(t, http.MethodPut, "/api/commodities/"+id, ts.admin, map[string]int{"maxThreshold": 40})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Errors, "maxThreshold")
}

func TestUnknownIDsReturnNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/commodities/missing", ts.user, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Commodity not found", resp.Error)

	rec, resp = ts.do(t, http.MethodPatch, "/api/alerts/missing/acknowledge", ts.user, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Alert not found", resp.Error)

	rec, _ = ts.do(t, http.MethodPost, "/api/movements", ts.admin, map[string]interface{}{
		"commodityId": "missing", "type": "in", "quantity": 5,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordMovementFlow(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/movements", ts.admin, map[string]interface{}{
		"commodityId": "2", "type": "out", "quantity": 130,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := resp.Data.(map[string]interface{})
	movement := data["movement"].(map[string]interface{})
	assert.Equal(t, float64(200), movement["previousStock"])
	assert.Equal(t, float64(70), movement["newStock"])
	assert.Equal(t, "Admin User", movement["performedBy"])
	assert.Equal(t, domain.ReasonConsumption, movement["reason"])
	assert.Equal(t, "critical", data["commodity"].(map[string]interface{})["status"])
	// Steel Rods and Safety Helmets were alerted on load
	alerts := data["alerts"].([]interface{})
	require.Len(t, alerts, 1)
	assert.Equal(t, "2", alerts[0].(map[string]interface{})["commodityId"])

	rec, resp = ts.do(t, http.MethodGet, "/api/movements?commodity_id=2&limit=1", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data, 1)

	expected := `
# HELP inventory_movements_total Stock movements recorded
# TYPE inventory_movements_total counter
inventory_movements_total{type="out"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(ts.reg, strings.NewReader(expected), "inventory_movements_total"))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		ts.handler.metrics.requestCounter.WithLabelValues(http.MethodPost, "/api/movements", "201")))
}

func TestRecordMovementValidation(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/movements", ts.admin, map[string]interface{}{
		"commodityId": "2", "type": "sideways", "quantity": 0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Errors, "type")
	assert.Contains(t, resp.Errors, "quantity")
}

func TestScanAndAcknowledgeAlerts(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/alerts?unacknowledged=true", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	open := resp.Data.([]interface{})
	require.Len(t, open, 2)

	rec, resp = ts.do(t, http.MethodPost, "/api/alerts/scan", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Data)

	id := open[0].(map[string]interface{})["id"].(string)
	rec, resp = ts.do(t, http.MethodPatch, "/api/alerts/"+id+"/acknowledge", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp.Data.(map[string]interface{})["acknowledged"])

	rec, resp = ts.do(t, http.MethodGet, "/api/alerts?unacknowledged=true", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data, 1)

	expected := `
# HELP inventory_unacknowledged_alerts Number of alerts not yet acknowledged
# TYPE inventory_unacknowledged_alerts gauge
inventory_unacknowledged_alerts 1
`
	assert.NoError(t, testutil.GatherAndCompare(ts.reg, strings.NewReader(expected), "inventory_unacknowledged_alerts"))
}

func TestDashboardStats(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/dashboard/stats", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(4), stats["totalCommodities"])
	assert.Equal(t, float64(2), stats["lowStockCount"])
	assert.InDelta(t, 79016.5, stats["totalValue"], 0.001)
	assert.Equal(t, float64(2), stats["unacknowledgedAlerts"])

	expected := `
# HELP inventory_total_value Sum of current stock times unit price
# TYPE inventory_total_value gauge
inventory_total_value 79016.5
`
	assert.NoError(t, testutil.GatherAndCompare(ts.reg, strings.NewReader(expected), "inventory_total_value"))
}

func TestTrendRejectsBadDays(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/commodities/1/trend?days=week", ts.user, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Errors, "days")

	rec, resp = ts.do(t, http.MethodGet, "/api/commodities/1/trend", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	levels := resp.Data.(map[string]interface{})["levels"].([]interface{})
	assert.Len(t, levels, domain.DefaultTrendDays)
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(RequestID(r.Context())))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Internal Server Error"))
}
