package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/command"
	"github.com/tair/commodity-tracker/internal/inventory/usecase/query"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "inventory.v1.InventoryService"

// InventoryService is the server API. Requests and responses are
// google.protobuf.Struct values shaped like the HTTP payloads.
type InventoryService interface {
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAlerts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordMovement(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AcknowledgeAlert(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// InventoryGRPCServer implements InventoryService on top of the use cases
type InventoryGRPCServer struct {
	recordHandler      *command.RecordMovementHandler
	acknowledgeHandler *command.AcknowledgeAlertHandler

	statsHandler  *query.GetStatsHandler
	alertsHandler *query.ListAlertsHandler
}

// NewInventoryGRPCServer creates a new gRPC server
func NewInventoryGRPCServer(
	recordHandler *command.RecordMovementHandler,
	acknowledgeHandler *command.AcknowledgeAlertHandler,
	statsHandler *query.GetStatsHandler,
	alertsHandler *query.ListAlertsHandler,
) *InventoryGRPCServer {
	return &InventoryGRPCServer{
		recordHandler:      recordHandler,
		acknowledgeHandler: acknowledgeHandler,
		statsHandler:       statsHandler,
		alertsHandler:      alertsHandler,
	}
}

// Register attaches the service to s
func (s *InventoryGRPCServer) Register(server *grpc.Server) {
	server.RegisterService(&ServiceDesc, s)
}

// GetStats returns the dashboard statistics
func (s *InventoryGRPCServer) GetStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(s.statsHandler.Handle(query.GetStatsQuery{}))
}

// ListAlerts returns alerts newest first; {"unacknowledged": true} filters
func (s *InventoryGRPCServer) ListAlerts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	alerts := s.alertsHandler.Handle(query.ListAlertsQuery{
		UnacknowledgedOnly: req.GetFields()["unacknowledged"].GetBoolValue(),
	})
	return toStruct(map[string]interface{}{"alerts": alerts})
}

// RecordMovement applies a stock movement
func (s *InventoryGRPCServer) RecordMovement(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	cmd := command.RecordMovementCommand{
		CommodityID: fields["commodityId"].GetStringValue(),
		Kind:        domain.MovementKind(fields["type"].GetStringValue()),
		Quantity:    int(fields["quantity"].GetNumberValue()),
		Reason:      fields["reason"].GetStringValue(),
		PerformedBy: usernameFromContext(ctx),
	}

	logger.WithContext(ctx).Info().
		Str("commodity_id", cmd.CommodityID).
		Str("type", string(cmd.Kind)).
		Int("quantity", cmd.Quantity).
		Msg("gRPC: RecordMovement called")

	res, err := s.recordHandler.Handle(ctx, cmd)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	alerts := res.Alerts
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	return toStruct(map[string]interface{}{
		"movement":  res.Movement,
		"commodity": res.Commodity,
		"alerts":    alerts,
	})
}

// AcknowledgeAlert marks {"id": ...} as acknowledged
func (s *InventoryGRPCServer) AcknowledgeAlert(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	alert, err := s.acknowledgeHandler.Handle(ctx, command.AcknowledgeAlertCommand{
		ID: req.GetFields()["id"].GetStringValue(),
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return toStruct(alert)
}

// toStruct converts a JSON-encodable value into a Struct using its JSON tags
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// toStatus maps domain errors to gRPC codes
func toStatus(ctx context.Context, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		st := status.New(codes.InvalidArgument, "validation failed")
		details, _ := structpb.NewStruct(stringMap(ve.Fields))
		if withDetails, derr := st.WithDetails(details); derr == nil {
			st = withDetails
		}
		return st.Err()
	case errors.Is(err, domain.ErrCommodityNotFound):
		return status.Error(codes.NotFound, "commodity not found")
	case errors.Is(err, domain.ErrAlertNotFound):
		return status.Error(codes.NotFound, "alert not found")
	default:
		logger.WithContext(ctx).Error().Err(err).Msg("gRPC: request failed")
		return status.Errorf(codes.Internal, "internal error: %v", err)
	}
}

func stringMap(fields map[string]string) map[string]interface{} {
	m := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return m
}

func unaryHandler(
	call func(InventoryService, context.Context, *structpb.Struct) (*structpb.Struct, error),
	method string,
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryService), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(InventoryService), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes InventoryService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStats", Handler: unaryHandler(InventoryService.GetStats, "GetStats")},
		{MethodName: "ListAlerts", Handler: unaryHandler(InventoryService.ListAlerts, "ListAlerts")},
		{MethodName: "RecordMovement", Handler: unaryHandler(InventoryService.RecordMovement, "RecordMovement")},
		{MethodName: "AcknowledgeAlert", Handler: unaryHandler(InventoryService.AcknowledgeAlert, "AcknowledgeAlert")},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/inventory.proto",
}
