package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/tair/commodity-tracker/api-gateway/config"
	"github.com/tair/commodity-tracker/api-gateway/middleware"
	"github.com/tair/commodity-tracker/api-gateway/routes"
	"github.com/tair/commodity-tracker/pkg/auth"
	"github.com/tair/commodity-tracker/pkg/logger"
	"github.com/tair/commodity-tracker/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Strs("inventory_instances", cfg.Inventory.Instances).
		Msg("Starting API Gateway")

	auth.Configure(cfg.JWTSecret, 0)

	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		JaegerEndpoint: cfg.JaegerEndpoint,
		SampleRatio:    1,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	redisClient := connectRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	breakers := middleware.NewCircuitBreakerManager(cfg.Breaker.MaxFailures, cfg.Breaker.OpenTimeout)

	app := fiber.New(fiber.Config{
		AppName:      "Commodity Tracker Gateway",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Inventory.Timeout + 5*time.Second,
		IdleTimeout:  30 * time.Second,
		ErrorHandler: errorHandler,
	})

	setupMiddleware(app, cfg, breakers)
	routes.SetupRoutes(app, routes.Dependencies{
		Config:   cfg,
		Redis:    redisClient,
		Breakers: breakers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.Port
		logger.Logger.Info().Str("addr", addr).Msg("API Gateway listening")
		if err := app.Listen(addr); err != nil {
			logger.Logger.Error().Err(err).Msg("Gateway server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down API Gateway")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Logger.Error().Err(err).Msg("Gateway forced to shutdown")
	}
	logger.Logger.Info().Msg("API Gateway stopped")
}

// connectRedis returns nil when Redis is unreachable so the gateway still
// proxies, without rate limiting or caching
func connectRedis(cfg *config.GatewayConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.RedisAddr).
			Msg("Failed to connect to Redis - rate limiting and caching disabled")
		client.Close()
		return nil
	}

	logger.Logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("Connected to Redis")
	return client
}

// setupMiddleware configures global middleware
func setupMiddleware(app *fiber.App, cfg *config.GatewayConfig, breakers *middleware.CircuitBreakerManager) {
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware(cfg.ServiceName))
	app.Use(middleware.StructuredLoggingMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,PATCH,OPTIONS,HEAD",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		ExposeHeaders: "X-Request-Id, X-Trace-Id, X-Cache, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:        86400,
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(middleware.CircuitBreakerMiddleware(breakers, routes.ServiceResolver(cfg.Inventory.Name)))
}

// errorHandler renders fiber errors in the service response envelope
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success":   false,
		"error":     err.Error(),
		"path":      c.Path(),
		"requestId": c.GetRespHeader(fiber.HeaderXRequestID),
	})
}
