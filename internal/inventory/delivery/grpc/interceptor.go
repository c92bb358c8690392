package grpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/tair/commodity-tracker/pkg/auth"
	"github.com/tair/commodity-tracker/pkg/logger"
)

type claimsKey struct{}

// adminMethods lists the full method names only admins may call
var adminMethods = map[string]bool{
	"/" + ServiceName + "/RecordMovement": true,
}

// LoggingInterceptor logs every unary call with its code and duration
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		event := logger.WithContext(ctx).Info()
		if err != nil {
			event = logger.WithContext(ctx).Warn().Err(err)
		}
		event.
			Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Dur("duration", time.Since(start)).
			Msg("gRPC request completed")

		return resp, err
	}
}

// AuthInterceptor validates the bearer token in the authorization metadata
// and enforces the admin role on admin methods
func AuthInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "authorization token required")
		}

		token := strings.TrimPrefix(values[0], "Bearer ")
		claims, err := auth.ValidateToken(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		if adminMethods[info.FullMethod] && claims.Role != auth.RoleAdmin {
			return nil, status.Error(codes.PermissionDenied, "admin access required")
		}

		return handler(context.WithValue(ctx, claimsKey{}, claims), req)
	}
}

func usernameFromContext(ctx context.Context) string {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	if !ok {
		return ""
	}
	return claims.Username
}
