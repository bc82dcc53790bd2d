package interceptors

import (
	"context"
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ipam-control-plane/internal/platform/authz"
)

// AuthzUnary returns a unary server interceptor that asks the authorizer whether the actor placed
// in context by AuthUnary may invoke the RPC. It must run after AuthUnary. publicMethods skip the check.
func AuthzUnary(authorizer authz.Authorizer, publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		userID, ok := GetUserID(ctx)
		if !ok || userID == "" {
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}
		companyID, _ := GetCompanyID(ctx)
		role, _ := GetRole(ctx)
		allowed, err := authorizer.Allow(ctx, authz.Input{
			UserID:    userID,
			CompanyID: companyID,
			Role:      role,
			Method:    info.FullMethod,
			Target:    authz.ParseFullMethod(info.FullMethod),
		})
		if err != nil {
			log.Printf("authz: %s for %s: %v", info.FullMethod, userID, err)
			return nil, status.Error(codes.Internal, "authorization failed")
		}
		if !allowed {
			return nil, status.Errorf(codes.PermissionDenied, "role %q may not call %s", role, info.FullMethod)
		}
		return handler(ctx, req)
	}
}
