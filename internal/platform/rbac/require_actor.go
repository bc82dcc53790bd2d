package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ipam-control-plane/internal/server/interceptors"
	"ipam-control-plane/internal/workflow"
)

// RequireActor builds the workflow actor from the identity AuthUnary placed in context.
// Returns Unauthenticated when no user is present and PermissionDenied for an unknown role or a
// company user without a company.
func RequireActor(ctx context.Context) (workflow.Actor, error) {
	userID, ok := interceptors.GetUserID(ctx)
	if !ok || userID == "" {
		return workflow.Actor{}, status.Error(codes.Unauthenticated, "user context required")
	}
	companyID, _ := interceptors.GetCompanyID(ctx)
	role, _ := interceptors.GetRole(ctx)
	actor := workflow.Actor{UserID: userID, CompanyID: companyID, Role: workflow.Role(role)}
	switch actor.Role {
	case workflow.RoleApprover:
	case workflow.RoleCompany:
		if companyID == "" {
			return workflow.Actor{}, status.Error(codes.PermissionDenied, "company context required")
		}
	default:
		return workflow.Actor{}, status.Errorf(codes.PermissionDenied, "unknown role %q", role)
	}
	return actor, nil
}
