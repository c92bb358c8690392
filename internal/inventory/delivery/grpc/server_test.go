package grpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/metrics"
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

func dial(t *testing.T) *grpc.ClientConn {
	t.Helper()
	conn, _ := dialWithMetrics(t)
	return conn
}

func dialWithMetrics(t *testing.T) (*grpc.ClientConn, *prometheus.Registry) {
	t.Helper()
	auth.Configure("grpc-secret", time.Hour)

	s := store.New(repository.NewMemoryBucketStore())
	require.NoError(t, s.Load(context.Background()))

	reg := prometheus.NewRegistry()
	m := metrics.NewInventoryMetrics(s, reg)

	srv := NewInventoryGRPCServer(
		command.NewRecordMovementHandler(s, m.Publisher(nopPublisher{})),
		command.NewAcknowledgeAlertHandler(s),
		query.NewGetStatsHandler(s),
		query.NewListAlertsHandler(s),
	)

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor(), AuthInterceptor()))
	srv.Register(server)
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, reg
}

func withToken(t *testing.T, role string) context.Context {
	t.Helper()
	token, err := auth.GenerateToken("1", "Grpc Caller", "caller@inventory.com", role)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func invoke(ctx context.Context, conn *grpc.ClientConn, method string, req map[string]interface{}) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	err = conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out)
	return out, err
}

func TestGetStatsOverGRPC(t *testing.T) {
	conn := dial(t)

	out, err := invoke(withToken(t, auth.RoleUser), conn, "GetStats", nil)
	require.NoError(t, err)

	assert.Equal(t, float64(4), out.Fields["totalCommodities"].GetNumberValue())
	assert.Equal(t, float64(2), out.Fields["lowStockCount"].GetNumberValue())
}

func TestGRPCRequiresToken(t *testing.T) {
	conn := dial(t)

	_, err := invoke(context.Background(), conn, "GetStats", nil)

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRecordMovementIsAdminOnly(t *testing.T) {
	conn := dial(t)
	req := map[string]interface{}{"commodityId": "2", "type": "in", "quantity": 10}

	_, err := invoke(withToken(t, auth.RoleUser), conn, "RecordMovement", req)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	out, err := invoke(withToken(t, auth.RoleAdmin), conn, "RecordMovement", req)
	require.NoError(t, err)

	movement := out.Fields["movement"].GetStructValue().GetFields()
	assert.Equal(t, float64(210), movement["newStock"].GetNumberValue())
	assert.Equal(t, "Grpc Caller", movement["performedBy"].GetStringValue())
}

func TestRecordMovementErrorsMapToCodes(t *testing.T) {
	conn := dial(t)
	ctx := withToken(t, auth.RoleAdmin)

	_, err := invoke(ctx, conn, "RecordMovement", map[string]interface{}{"commodityId": "2", "type": "in", "quantity": 0})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = invoke(ctx, conn, "RecordMovement", map[string]interface{}{"commodityId": "nope", "type": "in", "quantity": 1})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestListAndAcknowledgeAlerts(t *testing.T) {
	conn := dial(t)
	ctx := withToken(t, auth.RoleAdmin)

	// the seeded shortages are alerted when the store loads
	out, err := invoke(ctx, conn, "ListAlerts", map[string]interface{}{"unacknowledged": true})
	require.NoError(t, err)
	alerts := out.Fields["alerts"].GetListValue().GetValues()
	require.Len(t, alerts, 2)

	id := alerts[0].GetStructValue().GetFields()["id"].GetStringValue()
	acked, err := invoke(ctx, conn, "AcknowledgeAlert", map[string]interface{}{"id": id})
	require.NoError(t, err)
	assert.True(t, acked.Fields["acknowledged"].GetBoolValue())

	_, err = invoke(ctx, conn, "AcknowledgeAlert", map[string]interface{}{"id": "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRecordMovementUpdatesInventoryMetrics(t *testing.T) {
	conn, reg := dialWithMetrics(t)

	_, err := invoke(withToken(t, auth.RoleAdmin), conn, "RecordMovement",
		map[string]interface{}{"commodityId": "2", "type": "out", "quantity": 130})
	require.NoError(t, err)

	expected := `
# HELP inventory_commodities Number of commodities per stock status
# TYPE inventory_commodities gauge
inventory_commodities{status="critical"} 2
inventory_commodities{status="low"} 1
inventory_commodities{status="normal"} 0
inventory_commodities{status="overstocked"} 1
# HELP inventory_movements_total Stock movements recorded
# TYPE inventory_movements_total counter
inventory_movements_total{type="out"} 1
# HELP inventory_total_value Sum of current stock times unit price
# TYPE inventory_total_value gauge
inventory_total_value 77391.5
# HELP inventory_unacknowledged_alerts Number of alerts not yet acknowledged
# TYPE inventory_unacknowledged_alerts gauge
inventory_unacknowledged_alerts 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"inventory_commodities",
		"inventory_movements_total",
		"inventory_total_value",
		"inventory_unacknowledged_alerts",
	))
}
