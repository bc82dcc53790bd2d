package handler

import (
	"context"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	ipamv1 "ipam-control-plane/api/ipam/v1"
	"ipam-control-plane/internal/history/domain"
	"ipam-control-plane/internal/history/repository"
	"ipam-control-plane/internal/platform/apperr"
	"ipam-control-plane/internal/platform/rbac"
	"ipam-control-plane/internal/workflow"
)

// HistoryReader is the read side of the audit trail. *workflow.Service implements it.
type HistoryReader interface {
	ListHistory(ctx context.Context, f repository.Filter, actor workflow.Actor) ([]*domain.Entry, error)
	AddressHistory(ctx context.Context, addressID string, actor workflow.Actor) ([]*domain.Entry, error)
}

// Server implements HistoryService.
type Server struct {
	ipamv1.UnimplementedHistoryServiceServer
	reader HistoryReader
}

// NewServer returns a new History gRPC server.
func NewServer(reader HistoryReader) *Server {
	return &Server{reader: reader}
}

// ListHistory returns audit entries newest first filtered by company, address, action and date range.
func (s *Server) ListHistory(ctx context.Context, req *ipamv1.ListHistoryRequest) (*ipamv1.ListHistoryResponse, error) {
	if s.reader == nil {
		return nil, status.Error(codes.Unimplemented, "method ListHistory not implemented")
	}
	actor, err := rbac.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if req.PageSize < 0 || req.Offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "page_size and offset must not be negative")
	}
	entries, err := s.reader.ListHistory(ctx, repository.Filter{
		CompanyID: req.CompanyId,
		AddressID: req.AddressId,
		Action:    domain.Action(req.Action),
		From:      req.From,
		To:        req.To,
		Limit:     int(req.PageSize),
		Offset:    int(req.Offset),
	}, actor)
	if err != nil {
		return nil, toStatus("list history", err)
	}
	return &ipamv1.ListHistoryResponse{Entries: entriesToProto(entries)}, nil
}

// ListAddressHistory returns the trail of one address newest first.
func (s *Server) ListAddressHistory(ctx context.Context, req *ipamv1.ListAddressHistoryRequest) (*ipamv1.ListHistoryResponse, error) {
	if s.reader == nil {
		return nil, status.Error(codes.Unimplemented, "method ListAddressHistory not implemented")
	}
	actor, err := rbac.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetAddressId() == "" {
		return nil, status.Error(codes.InvalidArgument, "address_id is required")
	}
	entries, err := s.reader.AddressHistory(ctx, req.AddressId, actor)
	if err != nil {
		return nil, toStatus("list address history", err)
	}
	return &ipamv1.ListHistoryResponse{Entries: entriesToProto(entries)}, nil
}

func toStatus(op string, err error) error {
	if apperr.KindOf(err) == 0 {
		log.Printf("history: %s: %v", op, err)
	}
	return apperr.ToStatus(err)
}

func entriesToProto(entries []*domain.Entry) []*ipamv1.HistoryEntry {
	out := make([]*ipamv1.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToProto(e))
	}
	return out
}

func entryToProto(e *domain.Entry) *ipamv1.HistoryEntry {
	return &ipamv1.HistoryEntry{
		Id:          e.ID,
		AddressId:   e.AddressID,
		CompanyId:   deref(e.CompanyID),
		Action:      string(e.Action),
		PerformedBy: e.PerformedBy,
		MacAddress:  deref(e.MACAddress),
		HolderName:  deref(e.HolderName),
		Notes:       deref(e.Notes),
		ExpiresAt:   e.ExpiresAt,
		CreatedAt:   e.CreatedAt,
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
