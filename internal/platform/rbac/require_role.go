package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ipam-control-plane/internal/workflow"
)

// RequireApprover ensures the caller decides requests (approve, reject).
func RequireApprover(ctx context.Context) (workflow.Actor, error) {
	actor, err := RequireActor(ctx)
	if err != nil {
		return workflow.Actor{}, err
	}
	if !actor.IsApprover() {
		return workflow.Actor{}, status.Error(codes.PermissionDenied, "approver role required")
	}
	return actor, nil
}

// RequireCompany ensures the caller files requests for a company (create, cancel).
func RequireCompany(ctx context.Context) (workflow.Actor, error) {
	actor, err := RequireActor(ctx)
	if err != nil {
		return workflow.Actor{}, err
	}
	if actor.Role != workflow.RoleCompany {
		return workflow.Actor{}, status.Error(codes.PermissionDenied, "company role required")
	}
	return actor, nil
}
