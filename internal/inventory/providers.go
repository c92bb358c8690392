package inventory

import (
	"context"
	"fmt"

	"github.com/google/wire"

	grpcDelivery "github.com/tair/commodity-tracker/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/commodity-tracker/internal/inventory/delivery/http"
	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/metrics"
	"github.com/tair/commodity-tracker/internal/inventory/store"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/command"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/query"
)

// App bundles the entry points built around one loaded store
type App struct {
	Store  *store.Store
	HTTP   *httpDelivery.InventoryHandler
	GRPC   *grpcDelivery.InventoryGRPCServer
	Record *command.RecordMovementHandler
}

// ProvideStore creates the store and loads the persisted buckets
func ProvideStore(ctx context.Context, buckets domain.BucketStore) (*store.Store, error) {
	s := store.New(buckets)
	if err := s.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	return s, nil
}

// EventSink is the outbound event transport handed to InitializeApp
type EventSink command.EventPublisher

// ProvideEventPublisher counts movements on their way to sink
func ProvideEventPublisher(m *metrics.InventoryMetrics, sink EventSink) command.EventPublisher {
	return m.Publisher(sink)
}

var StoreSet = wire.NewSet(
	ProvideStore,
	metrics.NewInventoryMetrics,
	ProvideEventPublisher,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateCommodityHandler,
	command.NewUpdateCommodityHandler,
	command.NewDeleteCommodityHandler,
	command.NewRecordMovementHandler,
	command.NewAcknowledgeAlertHandler,
	command.NewScanAlertsHandler,
	wire.Struct(new(httpDelivery.CommandHandlers), "*"),
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetCommodityHandler,
	query.NewListCommoditiesHandler,
	query.NewGetStatsHandler,
	query.NewGetTrendHandler,
	query.NewListMovementsHandler,
	query.NewListAlertsHandler,
	wire.Struct(new(httpDelivery.QueryHandlers), "*"),
)

var AllHandlersSet = wire.NewSet(
	StoreSet,
	CommandHandlerSet,
	QueryHandlerSet,
)
