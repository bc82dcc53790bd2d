package authz

import (
	"context"
	"testing"
)

func TestParseFullMethod(t *testing.T) {
	tests := []struct {
		method string
		want   Target
	}{
		{"/ipam.v1.IPRequestService/CreateRequest", Target{"iprequest", "create"}},
		{"/ipam.v1.IPRequestService/ApproveRequest", Target{"iprequest", "approve"}},
		{"/ipam.v1.IPRequestService/RejectRequest", Target{"iprequest", "reject"}},
		{"/ipam.v1.IPRequestService/CancelRequest", Target{"iprequest", "cancel"}},
		{"/ipam.v1.IPRequestService/GetRequest", Target{"iprequest", "get"}},
		{"/ipam.v1.IPRequestService/ListRequests", Target{"iprequest", "list"}},
		{"/ipam.v1.HistoryService/ListAddressHistory", Target{"history", "list"}},
		{"/ipam.v1.HealthService/HealthCheck", Target{"health", "check"}},
		{"/ipam.v1.HistoryService/Purge", Target{"history", "purge"}},
		{"no-slash", Target{"unknown", "unknown"}},
	}
	for _, tt := range tests {
		if got := ParseFullMethod(tt.method); got != tt.want {
			t.Errorf("ParseFullMethod(%q) = %+v, want %+v", tt.method, got, tt.want)
		}
	}
}

func TestOPAAuthorizer_DefaultPolicy(t *testing.T) {
	ctx := context.Background()
	a, err := NewOPAAuthorizer(ctx, "")
	if err != nil {
		t.Fatalf("NewOPAAuthorizer: %v", err)
	}
	tests := []struct {
		name      string
		role      string
		companyID string
		method    string
		want      bool
	}{
		{"approver approves", "approver", "", "/ipam.v1.IPRequestService/ApproveRequest", true},
		{"approver rejects", "approver", "", "/ipam.v1.IPRequestService/RejectRequest", true},
		{"approver lists history", "approver", "", "/ipam.v1.HistoryService/ListHistory", true},
		{"approver cannot file", "approver", "", "/ipam.v1.IPRequestService/CreateRequest", false},
		{"company files", "company", "c1", "/ipam.v1.IPRequestService/CreateRequest", true},
		{"company withdraws", "company", "c1", "/ipam.v1.IPRequestService/CancelRequest", true},
		{"company reads", "company", "c1", "/ipam.v1.IPRequestService/GetRequest", true},
		{"company cannot approve", "company", "c1", "/ipam.v1.IPRequestService/ApproveRequest", false},
		{"company without id", "company", "", "/ipam.v1.IPRequestService/CreateRequest", false},
		{"unknown role", "guest", "c1", "/ipam.v1.IPRequestService/GetRequest", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{UserID: "u1", CompanyID: tt.companyID, Role: tt.role, Method: tt.method, Target: ParseFullMethod(tt.method)}
			got, err := a.Allow(ctx, in)
			if err != nil {
				t.Fatalf("Allow: %v", err)
			}
			if got != tt.want {
				t.Errorf("Allow = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOPAAuthorizer_CustomPolicy(t *testing.T) {
	ctx := context.Background()
	policy := `package ipam.authz

default allow := false

allow if input.user_id == "root"
`
	a, err := NewOPAAuthorizer(ctx, policy)
	if err != nil {
		t.Fatalf("NewOPAAuthorizer: %v", err)
	}
	if ok, _ := a.Allow(ctx, Input{UserID: "root"}); !ok {
		t.Error("root should be allowed")
	}
	if ok, _ := a.Allow(ctx, Input{UserID: "u1", Role: "approver"}); ok {
		t.Error("u1 should be denied")
	}
}

func TestOPAAuthorizer_UndefinedDecisionDenies(t *testing.T) {
	ctx := context.Background()
	a, err := NewOPAAuthorizer(ctx, "package ipam.authz\n\nallow if input.role == \"approver\"\n")
	if err != nil {
		t.Fatalf("NewOPAAuthorizer: %v", err)
	}
	ok, err := a.Allow(ctx, Input{Role: "company"})
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Error("undefined allow should deny")
	}
	if err := a.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck should fail when allow is undefined for the probe")
	}
}

func TestNewOPAAuthorizer_CompileError(t *testing.T) {
	if _, err := NewOPAAuthorizer(context.Background(), "package ipam.authz\n\nallow if {"); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestOPAAuthorizer_HealthCheck(t *testing.T) {
	a, err := NewOPAAuthorizer(context.Background(), "")
	if err != nil {
		t.Fatalf("NewOPAAuthorizer: %v", err)
	}
	if err := a.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
