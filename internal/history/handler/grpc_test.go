package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	ipamv1 "ipam-control-plane/api/ipam/v1"
	"ipam-control-plane/internal/history/domain"
	"ipam-control-plane/internal/history/repository"
	"ipam-control-plane/internal/platform/apperr"
	"ipam-control-plane/internal/server/interceptors"
	"ipam-control-plane/internal/workflow"
)

// mockReader implements HistoryReader for tests.
type mockReader struct {
	entries   []*domain.Entry
	err       error
	gotFilter repository.Filter
	gotAddr   string
	gotActor  workflow.Actor
}

func (m *mockReader) ListHistory(_ context.Context, f repository.Filter, actor workflow.Actor) ([]*domain.Entry, error) {
	m.gotFilter = f
	m.gotActor = actor
	return m.entries, m.err
}

func (m *mockReader) AddressHistory(_ context.Context, addressID string, actor workflow.Actor) ([]*domain.Entry, error) {
	m.gotAddr = addressID
	m.gotActor = actor
	return m.entries, m.err
}

func strPtr(s string) *string { return &s }

func approverCtx() context.Context {
	return interceptors.WithActor(context.Background(), "approver-1", "", "approver")
}

func TestListHistory_Unimplemented(t *testing.T) {
	_, err := NewServer(nil).ListHistory(approverCtx(), &ipamv1.ListHistoryRequest{})
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("code = %v, want Unimplemented", status.Code(err))
	}
}

func TestListHistory_MapsFilterAndEntries(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	reader := &mockReader{entries: []*domain.Entry{{
		ID:          "e1",
		AddressID:   "a1",
		CompanyID:   strPtr("c1"),
		Action:      domain.ActionAssigned,
		PerformedBy: "approver-1",
		MACAddress:  strPtr("aa:bb:cc:dd:ee:ff"),
		Notes:       strPtr("lab printer"),
		CreatedAt:   at,
	}}}
	from := at.Add(-time.Hour)
	to := at.Add(time.Hour)

	resp, err := NewServer(reader).ListHistory(approverCtx(), &ipamv1.ListHistoryRequest{
		CompanyId: "c1",
		AddressId: "a1",
		Action:    "assigned",
		From:      &from,
		To:        &to,
		PageSize:  5,
	})
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	f := reader.gotFilter
	if f.CompanyID != "c1" || f.AddressID != "a1" || f.Action != domain.ActionAssigned || f.Limit != 5 {
		t.Errorf("filter = %+v", f)
	}
	if f.From == nil || !f.From.Equal(from) || f.To == nil || !f.To.Equal(to) {
		t.Errorf("range = %v..%v, want %v..%v", f.From, f.To, from, to)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(resp.Entries))
	}
	got := resp.Entries[0]
	if got.Action != "assigned" || got.CompanyId != "c1" || got.Notes != "lab printer" || got.HolderName != "" {
		t.Errorf("entry = %+v", got)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, at)
	}
}

func TestListHistory_Errors(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		req  *ipamv1.ListHistoryRequest
		err  error
		want codes.Code
	}{
		{"anonymous", context.Background(), &ipamv1.ListHistoryRequest{}, nil, codes.Unauthenticated},
		{"negative offset", approverCtx(), &ipamv1.ListHistoryRequest{Offset: -1}, nil, codes.InvalidArgument},
		{"bad action", approverCtx(), &ipamv1.ListHistoryRequest{}, apperr.BadRequest("unknown action"), codes.InvalidArgument},
		{"database", approverCtx(), &ipamv1.ListHistoryRequest{}, errors.New("db down"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServer(&mockReader{err: tt.err}).ListHistory(tt.ctx, tt.req)
			if status.Code(err) != tt.want {
				t.Errorf("code = %v, want %v", status.Code(err), tt.want)
			}
		})
	}
}

func TestListAddressHistory(t *testing.T) {
	reader := &mockReader{entries: []*domain.Entry{{ID: "e1", AddressID: "a1", Action: domain.ActionReleased}}}
	srv := NewServer(reader)

	if _, err := srv.ListAddressHistory(approverCtx(), &ipamv1.ListAddressHistoryRequest{}); status.Code(err) != codes.InvalidArgument {
		t.Errorf("empty address code = %v, want InvalidArgument", status.Code(err))
	}
	ctx := interceptors.WithActor(context.Background(), "user-1", "c1", "company")
	resp, err := srv.ListAddressHistory(ctx, &ipamv1.ListAddressHistoryRequest{AddressId: "a1"})
	if err != nil {
		t.Fatalf("ListAddressHistory: %v", err)
	}
	if reader.gotAddr != "a1" || reader.gotActor.CompanyID != "c1" {
		t.Errorf("reader got address %q actor %+v", reader.gotAddr, reader.gotActor)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].CompanyId != "" {
		t.Errorf("entries = %+v", resp.Entries)
	}
}
