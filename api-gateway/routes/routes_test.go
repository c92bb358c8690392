package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/commodity-tracker/api-gateway/config"
	"github.com/tair/commodity-tracker/api-gateway/middleware"
	"github.com/tair/commodity-tracker/pkg/auth"
)

type upstream struct {
	*httptest.Server
	mu      sync.Mutex
	paths   []string
	userIDs []string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.paths = append(u.paths, r.Method+" "+r.URL.Path)
		u.userIDs = append(u.userIDs, r.Header.Get("X-User-ID"))
		u.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) calls() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.paths...)
}

func newGateway(t *testing.T, backend *upstream, rdb *redis.Client) *fiber.App {
	t.Helper()
	auth.Configure("routes-secret", time.Hour)

	cfg := &config.GatewayConfig{
		ServiceName: "api-gateway",
		RateLimit:   config.RateLimitConfig{Requests: 100, Window: time.Minute},
		Cache:       config.CacheConfig{Enabled: true, TTL: time.Minute},
		Inventory: config.ServiceConfig{
			Name:        "inventory",
			Instances:   []string{backend.URL},
			Timeout:     time.Second,
			HealthCheck: "/health",
		},
	}

	app := fiber.New()
	SetupRoutes(app, Dependencies{
		Config:   cfg,
		Redis:    rdb,
		Breakers: middleware.NewCircuitBreakerManager(5, time.Minute),
	})
	return app
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, "Someone", "someone@inventory.com", role)
	require.NoError(t, err)
	return tok
}

func call(t *testing.T, app *fiber.App, method, target, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestServiceResolver(t *testing.T) {
	resolve := ServiceResolver("inventory")

	assert.Equal(t, "inventory", resolve("/api/alerts/a1/acknowledge"))
	assert.Equal(t, "inventory", resolve("/api/commodities"))
	assert.Equal(t, "inventory", resolve("/auth/login"))
	assert.Equal(t, "", resolve("/api/alertsX"))
	assert.Equal(t, "", resolve("/health/ready"))
	assert.Equal(t, "", resolve("/"))
}

func TestGatewayProxiesAuthenticatedRoutes(t *testing.T) {
	backend := newUpstream(t)
	app := newGateway(t, backend, nil)
	userToken := bearer(t, "2", auth.RoleUser)
	adminToken := bearer(t, "1", auth.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/commodities", "").StatusCode)
	assert.Empty(t, backend.calls())

	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/commodities", userToken).StatusCode)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/commodities/c1/trend", userToken).StatusCode)
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/movements", userToken).StatusCode)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/movements", adminToken).StatusCode)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodPatch, "/api/alerts/a1/acknowledge", userToken).StatusCode)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/auth/login", "").StatusCode)

	assert.Equal(t, []string{
		"GET /api/commodities",
		"GET /api/commodities/c1/trend",
		"POST /api/movements",
		"PATCH /api/alerts/a1/acknowledge",
		"POST /auth/login",
	}, backend.calls())
	assert.Equal(t, []string{"2", "2", "1", "2", ""}, backend.userIDs)
}

func TestGatewayOwnEndpoints(t *testing.T) {
	backend := newUpstream(t)
	app := newGateway(t, backend, nil)

	resp := call(t, app, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var overview map[string]any
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &overview))
	assert.Len(t, overview["routes"], len(Routes))

	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", "").StatusCode)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health/live", "").StatusCode)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health/ready", "").StatusCode)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/gateway/stats", "").StatusCode)

	assert.Equal(t, []string{"GET /health"}, backend.calls())
}

func TestGatewayCachesUntilMutation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	backend := newUpstream(t)
	app := newGateway(t, backend, rdb)
	userToken := bearer(t, "2", auth.RoleUser)
	adminToken := bearer(t, "1", auth.RoleAdmin)

	assert.Equal(t, "MISS", call(t, app, http.MethodGet, "/api/dashboard/stats", userToken).Header.Get("X-Cache"))
	assert.Equal(t, "HIT", call(t, app, http.MethodGet, "/api/dashboard/stats", userToken).Header.Get("X-Cache"))

	assert.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/movements", adminToken).StatusCode)

	assert.Equal(t, "MISS", call(t, app, http.MethodGet, "/api/dashboard/stats", userToken).Header.Get("X-Cache"))
	assert.Equal(t, []string{
		"GET /api/dashboard/stats",
		"POST /api/movements",
		"GET /api/dashboard/stats",
	}, backend.calls())
}
