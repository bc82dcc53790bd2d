package ipamv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	HistoryService_ListHistory_FullMethodName        = "/ipam.v1.HistoryService/ListHistory"
	HistoryService_ListAddressHistory_FullMethodName = "/ipam.v1.HistoryService/ListAddressHistory"
)

// HistoryServiceServer is the server API for the audit trail read model.
type HistoryServiceServer interface {
	ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error)
	ListAddressHistory(context.Context, *ListAddressHistoryRequest) (*ListHistoryResponse, error)
	mustEmbedUnimplementedHistoryServiceServer()
}

// UnimplementedHistoryServiceServer must be embedded by implementations.
type UnimplementedHistoryServiceServer struct{}

func (UnimplementedHistoryServiceServer) ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListHistory not implemented")
}
func (UnimplementedHistoryServiceServer) ListAddressHistory(context.Context, *ListAddressHistoryRequest) (*ListHistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAddressHistory not implemented")
}
func (UnimplementedHistoryServiceServer) mustEmbedUnimplementedHistoryServiceServer() {}

func RegisterHistoryServiceServer(s grpc.ServiceRegistrar, srv HistoryServiceServer) {
	s.RegisterService(&HistoryService_ServiceDesc, srv)
}

var HistoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "ipam.v1.HistoryService",
	HandlerType: (*HistoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListHistory",
			Handler:    unaryHandler(HistoryService_ListHistory_FullMethodName, HistoryServiceServer.ListHistory),
		},
		{
			MethodName: "ListAddressHistory",
			Handler:    unaryHandler(HistoryService_ListAddressHistory_FullMethodName, HistoryServiceServer.ListAddressHistory),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ipam/v1/history.proto",
}

// HistoryServiceClient is the client API for the audit trail read model.
type HistoryServiceClient interface {
	ListHistory(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListHistoryResponse, error)
	ListAddressHistory(ctx context.Context, in *ListAddressHistoryRequest, opts ...grpc.CallOption) (*ListHistoryResponse, error)
}

type historyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewHistoryServiceClient(cc grpc.ClientConnInterface) HistoryServiceClient {
	return &historyServiceClient{cc}
}

func (c *historyServiceClient) ListHistory(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListHistoryResponse, error) {
	return invoke[ListHistoryResponse](ctx, c.cc, HistoryService_ListHistory_FullMethodName, in, opts)
}

func (c *historyServiceClient) ListAddressHistory(ctx context.Context, in *ListAddressHistoryRequest, opts ...grpc.CallOption) (*ListHistoryResponse, error) {
	return invoke[ListHistoryResponse](ctx, c.cc, HistoryService_ListAddressHistory_FullMethodName, in, opts)
}
