package handler

import (
	"context"
	"log"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	ipamv1 "ipam-control-plane/api/ipam/v1"
	addressdomain "ipam-control-plane/internal/address/domain"
	"ipam-control-plane/internal/iprequest/domain"
	"ipam-control-plane/internal/iprequest/repository"
	"ipam-control-plane/internal/platform/apperr"
	"ipam-control-plane/internal/platform/rbac"
	"ipam-control-plane/internal/workflow"
)

// RequestService is the workflow surface the handler drives. *workflow.Service implements it.
type RequestService interface {
	Create(ctx context.Context, in workflow.CreateInput, actor workflow.Actor) (*workflow.RequestView, error)
	Approve(ctx context.Context, requestID string, actor workflow.Actor) (*workflow.RequestView, error)
	Reject(ctx context.Context, requestID, reason string, actor workflow.Actor) (*workflow.RequestView, error)
	Cancel(ctx context.Context, requestID string, actor workflow.Actor) (*workflow.RequestView, error)
	GetRequest(ctx context.Context, requestID string, actor workflow.Actor) (*workflow.RequestView, error)
	ListRequests(ctx context.Context, f repository.Filter, actor workflow.Actor) ([]*workflow.RequestView, error)
}

// Server implements IPRequestService.
type Server struct {
	ipamv1.UnimplementedIPRequestServiceServer
	svc RequestService
}

// NewServer returns a new IPRequest gRPC server.
func NewServer(svc RequestService) *Server {
	return &Server{svc: svc}
}

// CreateRequest files a new, renewal or cancellation request for the caller's company.
func (s *Server) CreateRequest(ctx context.Context, req *ipamv1.CreateRequestRequest) (*ipamv1.RequestResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method CreateRequest not implemented")
	}
	actor, err := rbac.RequireCompany(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.svc.Create(ctx, workflow.CreateInput{
		Type:            domain.Type(strings.TrimSpace(req.GetType())),
		AddressID:       optional(req.AddressId),
		Justification:   req.Justification,
		MACAddress:      optional(req.MacAddress),
		HolderName:      optional(req.HolderName),
		Temporary:       req.Temporary,
		RequestedExpiry: req.RequestedExpiry,
	}, actor)
	if err != nil {
		return nil, toStatus("create request", err)
	}
	return &ipamv1.RequestResponse{Request: requestToProto(view)}, nil
}

// ApproveRequest applies the request's effect on the inventory and marks it approved.
func (s *Server) ApproveRequest(ctx context.Context, req *ipamv1.ApproveRequestRequest) (*ipamv1.RequestResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method ApproveRequest not implemented")
	}
	actor, err := rbac.RequireApprover(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetRequestId() == "" {
		return nil, status.Error(codes.InvalidArgument, "request_id is required")
	}
	view, err := s.svc.Approve(ctx, req.RequestId, actor)
	if err != nil {
		return nil, toStatus("approve request", err)
	}
	return &ipamv1.RequestResponse{Request: requestToProto(view)}, nil
}

func (s *Server) RejectRequest(ctx context.Context, req *ipamv1.RejectRequestRequest) (*ipamv1.RequestResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method RejectRequest not implemented")
	}
	actor, err := rbac.RequireApprover(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetRequestId() == "" {
		return nil, status.Error(codes.InvalidArgument, "request_id is required")
	}
	view, err := s.svc.Reject(ctx, req.RequestId, req.Reason, actor)
	if err != nil {
		return nil, toStatus("reject request", err)
	}
	return &ipamv1.RequestResponse{Request: requestToProto(view)}, nil
}

// CancelRequest withdraws one of the caller's own pending requests.
func (s *Server) CancelRequest(ctx context.Context, req *ipamv1.CancelRequestRequest) (*ipamv1.RequestResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method CancelRequest not implemented")
	}
	actor, err := rbac.RequireCompany(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetRequestId() == "" {
		return nil, status.Error(codes.InvalidArgument, "request_id is required")
	}
	view, err := s.svc.Cancel(ctx, req.RequestId, actor)
	if err != nil {
		return nil, toStatus("cancel request", err)
	}
	return &ipamv1.RequestResponse{Request: requestToProto(view)}, nil
}

func (s *Server) GetRequest(ctx context.Context, req *ipamv1.GetRequestRequest) (*ipamv1.RequestResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method GetRequest not implemented")
	}
	actor, err := rbac.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetRequestId() == "" {
		return nil, status.Error(codes.InvalidArgument, "request_id is required")
	}
	view, err := s.svc.GetRequest(ctx, req.RequestId, actor)
	if err != nil {
		return nil, toStatus("get request", err)
	}
	return &ipamv1.RequestResponse{Request: requestToProto(view)}, nil
}

// ListRequests returns requests newest first. Company callers only see their own company's.
func (s *Server) ListRequests(ctx context.Context, req *ipamv1.ListRequestsRequest) (*ipamv1.ListRequestsResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method ListRequests not implemented")
	}
	actor, err := rbac.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	f := repository.Filter{
		CompanyID: req.CompanyId,
		Status:    domain.Status(req.Status),
		Type:      domain.Type(req.Type),
		Limit:     int(req.PageSize),
		Offset:    int(req.Offset),
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "unknown status %q", req.Status)
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "unknown type %q", req.Type)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "page_size and offset must not be negative")
	}
	views, err := s.svc.ListRequests(ctx, f, actor)
	if err != nil {
		return nil, toStatus("list requests", err)
	}
	out := make([]*ipamv1.IPRequest, 0, len(views))
	for _, v := range views {
		out = append(out, requestToProto(v))
	}
	return &ipamv1.ListRequestsResponse{Requests: out}, nil
}

// toStatus maps workflow errors to gRPC codes and logs the ones that are not business outcomes.
func toStatus(op string, err error) error {
	if apperr.KindOf(err) == 0 {
		if _, ok := status.FromError(err); !ok {
			log.Printf("iprequest: %s: %v", op, err)
		}
	}
	return apperr.ToStatus(err)
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func requestToProto(v *workflow.RequestView) *ipamv1.IPRequest {
	if v == nil || v.Request == nil {
		return nil
	}
	r := v.Request
	out := &ipamv1.IPRequest{
		Id:              r.ID,
		Type:            string(r.Type),
		Status:          string(r.Status),
		CompanyId:       r.CompanyID,
		AddressId:       deref(r.AddressID),
		RequestedBy:     r.RequestedBy,
		Justification:   r.Justification,
		MacAddress:      deref(r.MACAddress),
		HolderName:      deref(r.HolderName),
		Temporary:       r.Temporary,
		RequestedExpiry: r.RequestedExpiry,
		RejectionReason: r.RejectionReason,
		ApprovedBy:      deref(r.ApprovedBy),
		CreatedAt:       r.CreatedAt,
		RespondedAt:     r.RespondedAt,
	}
	if v.Company != nil {
		out.CompanyName = v.Company.Name
	}
	if v.Room != nil {
		out.RoomId = v.Room.ID
	}
	out.Address = addressToProto(v.Address)
	return out
}

func addressToProto(a *addressdomain.Address) *ipamv1.Address {
	if a == nil {
		return nil
	}
	return &ipamv1.Address{
		Id:            a.ID,
		Ip:            a.IP,
		Status:        string(a.Status),
		RoomId:        a.RoomID,
		CompanyId:     deref(a.CompanyID),
		MacAddress:    deref(a.MACAddress),
		HolderName:    deref(a.HolderName),
		Temporary:     a.Temporary,
		ExpiresAt:     a.ExpiresAt,
		LastRenewedAt: a.LastRenewedAt,
		AssignedAt:    a.AssignedAt,
	}
}
