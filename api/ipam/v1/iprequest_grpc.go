package ipamv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	IPRequestService_CreateRequest_FullMethodName  = "/ipam.v1.IPRequestService/CreateRequest"
	IPRequestService_ApproveRequest_FullMethodName = "/ipam.v1.IPRequestService/ApproveRequest"
	IPRequestService_RejectRequest_FullMethodName  = "/ipam.v1.IPRequestService/RejectRequest"
	IPRequestService_CancelRequest_FullMethodName  = "/ipam.v1.IPRequestService/CancelRequest"
	IPRequestService_GetRequest_FullMethodName     = "/ipam.v1.IPRequestService/GetRequest"
	IPRequestService_ListRequests_FullMethodName   = "/ipam.v1.IPRequestService/ListRequests"
)

// IPRequestServiceServer is the server API for the request workflow.
type IPRequestServiceServer interface {
	CreateRequest(context.Context, *CreateRequestRequest) (*RequestResponse, error)
	ApproveRequest(context.Context, *ApproveRequestRequest) (*RequestResponse, error)
	RejectRequest(context.Context, *RejectRequestRequest) (*RequestResponse, error)
	CancelRequest(context.Context, *CancelRequestRequest) (*RequestResponse, error)
	GetRequest(context.Context, *GetRequestRequest) (*RequestResponse, error)
	ListRequests(context.Context, *ListRequestsRequest) (*ListRequestsResponse, error)
	mustEmbedUnimplementedIPRequestServiceServer()
}

// UnimplementedIPRequestServiceServer must be embedded by implementations.
type UnimplementedIPRequestServiceServer struct{}

func (UnimplementedIPRequestServiceServer) CreateRequest(context.Context, *CreateRequestRequest) (*RequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateRequest not implemented")
}
func (UnimplementedIPRequestServiceServer) ApproveRequest(context.Context, *ApproveRequestRequest) (*RequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveRequest not implemented")
}
func (UnimplementedIPRequestServiceServer) RejectRequest(context.Context, *RejectRequestRequest) (*RequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RejectRequest not implemented")
}
func (UnimplementedIPRequestServiceServer) CancelRequest(context.Context, *CancelRequestRequest) (*RequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelRequest not implemented")
}
func (UnimplementedIPRequestServiceServer) GetRequest(context.Context, *GetRequestRequest) (*RequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRequest not implemented")
}
func (UnimplementedIPRequestServiceServer) ListRequests(context.Context, *ListRequestsRequest) (*ListRequestsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRequests not implemented")
}
func (UnimplementedIPRequestServiceServer) mustEmbedUnimplementedIPRequestServiceServer() {}

func RegisterIPRequestServiceServer(s grpc.ServiceRegistrar, srv IPRequestServiceServer) {
	s.RegisterService(&IPRequestService_ServiceDesc, srv)
}

var IPRequestService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "ipam.v1.IPRequestService",
	HandlerType: (*IPRequestServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateRequest",
			Handler:    unaryHandler(IPRequestService_CreateRequest_FullMethodName, IPRequestServiceServer.CreateRequest),
		},
		{
			MethodName: "ApproveRequest",
			Handler:    unaryHandler(IPRequestService_ApproveRequest_FullMethodName, IPRequestServiceServer.ApproveRequest),
		},
		{
			MethodName: "RejectRequest",
			Handler:    unaryHandler(IPRequestService_RejectRequest_FullMethodName, IPRequestServiceServer.RejectRequest),
		},
		{
			MethodName: "CancelRequest",
			Handler:    unaryHandler(IPRequestService_CancelRequest_FullMethodName, IPRequestServiceServer.CancelRequest),
		},
		{
			MethodName: "GetRequest",
			Handler:    unaryHandler(IPRequestService_GetRequest_FullMethodName, IPRequestServiceServer.GetRequest),
		},
		{
			MethodName: "ListRequests",
			Handler:    unaryHandler(IPRequestService_ListRequests_FullMethodName, IPRequestServiceServer.ListRequests),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ipam/v1/iprequest.proto",
}

// IPRequestServiceClient is the client API for the request workflow.
type IPRequestServiceClient interface {
	CreateRequest(ctx context.Context, in *CreateRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error)
	ApproveRequest(ctx context.Context, in *ApproveRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error)
	RejectRequest(ctx context.Context, in *RejectRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error)
	CancelRequest(ctx context.Context, in *CancelRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error)
	GetRequest(ctx context.Context, in *GetRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error)
	ListRequests(ctx context.Context, in *ListRequestsRequest, opts ...grpc.CallOption) (*ListRequestsResponse, error)
}

type ipRequestServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewIPRequestServiceClient(cc grpc.ClientConnInterface) IPRequestServiceClient {
	return &ipRequestServiceClient{cc}
}

func (c *ipRequestServiceClient) CreateRequest(ctx context.Context, in *CreateRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error) {
	return invoke[RequestResponse](ctx, c.cc, IPRequestService_CreateRequest_FullMethodName, in, opts)
}

func (c *ipRequestServiceClient) ApproveRequest(ctx context.Context, in *ApproveRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error) {
	return invoke[RequestResponse](ctx, c.cc, IPRequestService_ApproveRequest_FullMethodName, in, opts)
}

func (c *ipRequestServiceClient) RejectRequest(ctx context.Context, in *RejectRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error) {
	return invoke[RequestResponse](ctx, c.cc, IPRequestService_RejectRequest_FullMethodName, in, opts)
}

func (c *ipRequestServiceClient) CancelRequest(ctx context.Context, in *CancelRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error) {
	return invoke[RequestResponse](ctx, c.cc, IPRequestService_CancelRequest_FullMethodName, in, opts)
}

func (c *ipRequestServiceClient) GetRequest(ctx context.Context, in *GetRequestRequest, opts ...grpc.CallOption) (*RequestResponse, error) {
	return invoke[RequestResponse](ctx, c.cc, IPRequestService_GetRequest_FullMethodName, in, opts)
}

func (c *ipRequestServiceClient) ListRequests(ctx context.Context, in *ListRequestsRequest, opts ...grpc.CallOption) (*ListRequestsResponse, error) {
	return invoke[ListRequestsResponse](ctx, c.cc, IPRequestService_ListRequests_FullMethodName, in, opts)
}
