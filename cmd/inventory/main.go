package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/tair/commodity-tracker/internal/inventory"
	grpcDelivery "github.com/tair/commodity-tracker/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/commodity-tracker/internal/inventory/delivery/http"
	_ "github.com/tair/commodity-tracker/internal/inventory/docs"
	"github.com/tair/commodity-tracker/internal/user"
	"github.com/tair/commodity-tracker/kafka"
	"github.com/tair/commodity-tracker/pkg/auth"
	"github.com/tair/commodity-tracker/pkg/config"
	"github.com/tair/commodity-tracker/pkg/logger"
	"github.com/tair/commodity-tracker/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Init("inventory-service", true)
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Service.Name, cfg.IsDevelopment())
	logger.SetLevel(cfg.Log.Level)

	logger.Logger.Info().
		Str("service", cfg.Service.Name).
		Str("environment", cfg.Service.Environment).
		Str("log_level", cfg.Log.Level).
		Str("storage", cfg.Storage.Driver).
		Bool("kafka", cfg.Kafka.Enabled).
		Msg("Starting inventory service")

	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize tracer
	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.Config{
			ServiceName:    cfg.Service.Name,
			Environment:    cfg.Service.Environment,
			JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
			SampleRatio:    cfg.Tracing.SampleRatio,
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
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := inventory.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer storage.Close()

	var publisher inventory.EventSink = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		p, err := kafka.NewPublisher(cfg.Kafka.Brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer p.Close()
		publisher = p
	}

	// Initialize handlers with Wire DI
	app, err := inventory.InitializeApp(ctx, storage.Buckets, publisher, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory")
	}

	userHandler, err := user.InitializeHTTPHandler(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}

	if cfg.Kafka.Enabled {
		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{kafka.TopicCommodityConsumption})
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
		}
		defer consumer.Close()

		consumer.RegisterHandler(kafka.EventTypeCommodityConsumed, kafka.NewConsumptionHandler(app.Record))
		consumer.Start(ctx)
	}

	httpServer := newHTTPServer(cfg, app.HTTP, userHandler, storage.Ping)
	grpcServer := newGRPCServer(app.GRPC)

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTP.Port).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to listen for gRPC")
		}
		logger.Logger.Info().Str("port", cfg.GRPC.Port).Msg("gRPC server started")
		if err := grpcServer.Serve(lis); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to serve gRPC")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	grpcServer.GracefulStop()

	logger.Logger.Info().Msg("Server stopped")
}

func newHTTPServer(cfg *config.Config, handler *httpDelivery.InventoryHandler, userHandler userRoutes, ping httpDelivery.HealthCheck) *http.Server {
	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig(cfg.HTTP.AllowedOrigins)
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	handler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, ping)
	httpDelivery.RegisterSwaggerDocs(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           httpDelivery.SetupCORS(middlewareConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

type userRoutes interface {
	RegisterRoutes(router *mux.Router)
}

func newGRPCServer(service *grpcDelivery.InventoryGRPCServer) *grpc.Server {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcDelivery.LoggingInterceptor(),
			grpcDelivery.AuthInterceptor(),
		),
	)
	service.Register(server)
	reflection.Register(server)
	return server
}
