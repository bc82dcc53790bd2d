package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"google.golang.org/grpc"

	ipamv1 "ipam-control-plane/api/ipam/v1"
	healthhandler "ipam-control-plane/internal/health/handler"
	historyhandler "ipam-control-plane/internal/history/handler"
	iprequesthandler "ipam-control-plane/internal/iprequest/handler"
	"ipam-control-plane/internal/platform/authz"
	"ipam-control-plane/internal/server/interceptors"
)

const instrumentationName = "ipam.grpc"

// Deps holds optional service dependencies for gRPC handlers.
type Deps struct {
	// Requests runs the IP request workflow. If nil, IPRequestService RPCs return Unimplemented.
	Requests iprequesthandler.RequestService
	// History reads the audit trail. If nil, HistoryService RPCs return Unimplemented.
	History historyhandler.HistoryReader
	// HealthPinger is used by HealthService for readiness (e.g. *sql.DB). If nil, HealthCheck skips DB ping.
	HealthPinger healthhandler.Pinger
	// HealthPolicyChecker is used by HealthService for readiness (e.g. the OPA authorizer). If nil, HealthCheck skips policy check.
	HealthPolicyChecker healthhandler.PolicyChecker
}

// PublicMethods are reachable without a bearer token.
var PublicMethods = map[string]bool{
	ipamv1.HealthService_HealthCheck_FullMethodName: true,
}

// Options configures the interceptor chain of NewGRPCServer.
type Options struct {
	// Tokens validates bearer tokens. Required.
	Tokens interceptors.TokenValidator
	// Authorizer decides whether the caller's role may invoke the RPC. Required.
	Authorizer authz.Authorizer
	// Logger receives one record per RPC. Nil uses the global logger provider.
	Logger otellog.Logger
}

// NewGRPCServer returns a server speaking the JSON codec with tracing. Unary calls pass token
// validation, then a per-RPC log record carrying the caller, then the policy check.
// Calls rejected for a missing or bad token are not logged.
func NewGRPCServer(opts Options, extra ...grpc.ServerOption) *grpc.Server {
	logger := opts.Logger
	if logger == nil {
		logger = global.GetLoggerProvider().Logger(instrumentationName)
	}
	serverOpts := []grpc.ServerOption{
		grpc.ForceServerCodec(ipamv1.Codec{}),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.AuthUnary(opts.Tokens, PublicMethods),
			interceptors.TelemetryUnary(logger, nil),
			interceptors.AuthzUnary(opts.Authorizer, PublicMethods),
		),
	}
	return grpc.NewServer(append(serverOpts, extra...)...)
}

// RegisterServices registers all gRPC services with the given server.
//
// Service → handler mapping:
//   - IPRequestService → internal/iprequest/handler
//   - HistoryService   → internal/history/handler
//   - HealthService    → internal/health/handler
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	ipamv1.RegisterIPRequestServiceServer(s, iprequesthandler.NewServer(deps.Requests))
	ipamv1.RegisterHistoryServiceServer(s, historyhandler.NewServer(deps.History))
	ipamv1.RegisterHealthServiceServer(s, healthhandler.NewServer(deps.HealthPinger, deps.HealthPolicyChecker))
}
