package interceptors

import (
	"context"
	"testing"
)

func TestWithActor_SetsAllValues(t *testing.T) {
	ctx := WithActor(context.Background(), "user-1", "company-1", "company")

	userID, ok := GetUserID(ctx)
	if !ok || userID != "user-1" {
		t.Errorf("user_id = %q, ok = %v, want %q", userID, ok, "user-1")
	}
	companyID, ok := GetCompanyID(ctx)
	if !ok || companyID != "company-1" {
		t.Errorf("company_id = %q, ok = %v, want %q", companyID, ok, "company-1")
	}
	role, ok := GetRole(ctx)
	if !ok || role != "company" {
		t.Errorf("role = %q, ok = %v, want %q", role, ok, "company")
	}
}

func TestGetters_ReturnFalseWhenNotSet(t *testing.T) {
	ctx := context.Background()
	if v, ok := GetUserID(ctx); ok || v != "" {
		t.Errorf("GetUserID = %q, %v, want empty, false", v, ok)
	}
	if v, ok := GetCompanyID(ctx); ok || v != "" {
		t.Errorf("GetCompanyID = %q, %v, want empty, false", v, ok)
	}
	if v, ok := GetRole(ctx); ok || v != "" {
		t.Errorf("GetRole = %q, %v, want empty, false", v, ok)
	}
}

func TestWithActor_Chaining(t *testing.T) {
	ctx := WithActor(context.Background(), "user-1", "company-1", "company")
	ctx = WithActor(ctx, "user-2", "", "approver")

	if userID, _ := GetUserID(ctx); userID != "user-2" {
		t.Errorf("user_id = %q, want %q", userID, "user-2")
	}
	companyID, ok := GetCompanyID(ctx)
	if !ok {
		t.Fatal("GetCompanyID should return true even for empty value")
	}
	if companyID != "" {
		t.Errorf("company_id = %q, want empty", companyID)
	}
	if role, _ := GetRole(ctx); role != "approver" {
		t.Errorf("role = %q, want %q", role, "approver")
	}
}
