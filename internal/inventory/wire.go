//go:build wireinject
// +build wireinject

package inventory

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	grpcDelivery "github.com/tair/commodity-tracker/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/commodity-tracker/internal/inventory/delivery/http"
	"github.com/tair/commodity-tracker/internal/inventory/domain"
)

// InitializeApp loads the store and builds the HTTP and gRPC entry points
func InitializeApp(ctx context.Context, buckets domain.BucketStore, sink EventSink, reg prometheus.Registerer) (*App, error) {
	wire.Build(
		AllHandlersSet,
		httpDelivery.NewInventoryHandler,
		grpcDelivery.NewInventoryGRPCServer,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
