package rbac

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ipam-control-plane/internal/server/interceptors"
	"ipam-control-plane/internal/workflow"
)

func TestRequireActor(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		wantCode codes.Code
		want     workflow.Actor
	}{
		{
			name:     "no identity",
			ctx:      context.Background(),
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "empty user",
			ctx:      interceptors.WithActor(context.Background(), "", "c1", "company"),
			wantCode: codes.Unauthenticated,
		},
		{
			name: "approver without company",
			ctx:  interceptors.WithActor(context.Background(), "u1", "", "approver"),
			want: workflow.Actor{UserID: "u1", Role: workflow.RoleApprover},
		},
		{
			name: "company user",
			ctx:  interceptors.WithActor(context.Background(), "u2", "c1", "company"),
			want: workflow.Actor{UserID: "u2", CompanyID: "c1", Role: workflow.RoleCompany},
		},
		{
			name:     "company user without company",
			ctx:      interceptors.WithActor(context.Background(), "u2", "", "company"),
			wantCode: codes.PermissionDenied,
		},
		{
			name:     "unknown role",
			ctx:      interceptors.WithActor(context.Background(), "u3", "c1", "admin"),
			wantCode: codes.PermissionDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireActor(tt.ctx)
			if status.Code(err) != tt.wantCode {
				t.Fatalf("code = %v, want %v (err %v)", status.Code(err), tt.wantCode, err)
			}
			if got != tt.want {
				t.Errorf("actor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequireApproverAndCompany(t *testing.T) {
	approver := interceptors.WithActor(context.Background(), "u1", "", "approver")
	company := interceptors.WithActor(context.Background(), "u2", "c1", "company")

	if _, err := RequireApprover(approver); err != nil {
		t.Errorf("RequireApprover(approver): %v", err)
	}
	if _, err := RequireApprover(company); status.Code(err) != codes.PermissionDenied {
		t.Errorf("RequireApprover(company) code = %v, want PermissionDenied", status.Code(err))
	}
	if _, err := RequireCompany(company); err != nil {
		t.Errorf("RequireCompany(company): %v", err)
	}
	if _, err := RequireCompany(approver); status.Code(err) != codes.PermissionDenied {
		t.Errorf("RequireCompany(approver) code = %v, want PermissionDenied", status.Code(err))
	}
	if _, err := RequireCompany(context.Background()); status.Code(err) != codes.Unauthenticated {
		t.Errorf("RequireCompany(empty) code = %v, want Unauthenticated", status.Code(err))
	}
}
