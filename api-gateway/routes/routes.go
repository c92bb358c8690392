package routes

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tair/commodity-tracker/api-gateway/config"
	"github.com/tair/commodity-tracker/api-gateway/health"
	"github.com/tair/commodity-tracker/api-gateway/middleware"
	"github.com/tair/commodity-tracker/api-gateway/proxy"
)

// RouteDefinition defines a prefix forwarded to the inventory service
type RouteDefinition struct {
	Prefix       string   `json:"prefix"`
	Description  string   `json:"description"`
	RequireAuth  bool     `json:"requireAuth"`
	AdminMethods []string `json:"adminMethods,omitempty"`
	Cacheable    bool     `json:"cacheable"`
}

// Routes holds all route definitions
var Routes = []RouteDefinition{
	{
		Prefix:      "/auth",
		Description: "Login and session lookup",
	},
	{
		Prefix:       "/api/commodities",
		Description:  "Commodity catalogue, edits and stock trends",
		RequireAuth:  true,
		AdminMethods: []string{fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete},
		Cacheable:    true,
	},
	{
		Prefix:       "/api/movements",
		Description:  "Stock movement ledger",
		RequireAuth:  true,
		AdminMethods: []string{fiber.MethodPost},
		Cacheable:    true,
	},
	{
		Prefix:      "/api/alerts",
		Description: "Stock alerts, scans and acknowledgement",
		RequireAuth: true,
		Cacheable:   true,
	},
	{
		Prefix:      "/api/dashboard",
		Description: "Dashboard statistics",
		RequireAuth: true,
		Cacheable:   true,
	},
}

// Dependencies are the shared pieces the routes are built from. Redis may be
// nil, which disables rate limiting and caching.
type Dependencies struct {
	Config   *config.GatewayConfig
	Redis    *redis.Client
	Breakers *middleware.CircuitBreakerManager
}

// ServiceResolver maps a request path to the backend service name, or "" for
// paths the gateway answers itself
func ServiceResolver(serviceName string) func(path string) string {
	return func(path string) string {
		for _, route := range Routes {
			if path == route.Prefix || strings.HasPrefix(path, route.Prefix+"/") {
				return serviceName
			}
		}
		return ""
	}
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, deps Dependencies) {
	cfg := deps.Config
	reverseProxy := proxy.NewReverseProxy(cfg.Inventory)
	healthChecker := health.NewHealthChecker(cfg.ServiceName, cfg.Inventory)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		status := healthChecker.CheckAll(ctx)
		code := fiber.StatusOK
		if status.Status == health.StatusUnhealthy {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(status)
	})

	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()
		return c.JSON(healthChecker.CheckAll(ctx))
	})

	app.Get("/gateway/stats", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"circuit_breakers": deps.Breakers.AllStats(),
			"load_balancer":    reverseProxy.Balancer().Stats(),
		})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Commodity Tracker API Gateway",
			"version": "1.0.0",
			"service": cfg.Inventory.Name,
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerServiceRoutes(app, route, deps, reverseProxy.Handler())
	}
}

// registerServiceRoutes mounts the middleware chain for a route and proxies
// every method under its prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, deps Dependencies, handler fiber.Handler) {
	var chain []fiber.Handler

	if route.RequireAuth {
		chain = append(chain, middleware.AuthMiddleware())
		if len(route.AdminMethods) > 0 {
			chain = append(chain, middleware.AdminOnlyMethods(route.AdminMethods...))
		}
	}

	if deps.Redis != nil {
		cfg := deps.Config
		chain = append(chain, middleware.NewRateLimiter(deps.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Window).Middleware())

		if cfg.Cache.Enabled && route.Cacheable {
			cacheConfig := middleware.DefaultCacheConfig(cfg.Cache.TTL)
			chain = append(chain,
				middleware.InvalidateOnMutation(deps.Redis),
				middleware.CacheMiddleware(deps.Redis, cacheConfig),
			)
		}
	}

	group := app.Group(route.Prefix, chain...)
	group.All("", handler)
	group.All("/*", handler)
}
