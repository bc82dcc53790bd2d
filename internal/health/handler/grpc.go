package handler

import (
	"context"
	"log"

	ipamv1 "ipam-control-plane/api/ipam/v1"
)

// Pinger reports whether the database is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker reports whether the RPC authorization policy is loaded and evaluable.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server implements HealthService for readiness and liveness probes.
type Server struct {
	ipamv1.UnimplementedHealthServiceServer
	pinger Pinger
	policy PolicyChecker
}

// NewServer returns a new Health gRPC server. Nil dependencies are skipped.
func NewServer(pinger Pinger, policy PolicyChecker) *Server {
	return &Server{pinger: pinger, policy: policy}
}

// HealthCheck returns SERVING when every configured dependency answers, NOT_SERVING otherwise.
// Dependency failures are reported in the response, never as a gRPC error.
func (s *Server) HealthCheck(ctx context.Context, _ *ipamv1.HealthCheckRequest) (*ipamv1.HealthCheckResponse, error) {
	var failures []string
	if s.pinger != nil {
		if err := s.pinger.PingContext(ctx); err != nil {
			log.Printf("health: database ping failed: %v", err)
			failures = append(failures, "database")
		}
	}
	if s.policy != nil {
		if err := s.policy.HealthCheck(ctx); err != nil {
			log.Printf("health: policy check failed: %v", err)
			failures = append(failures, "policy")
		}
	}
	if len(failures) > 0 {
		return &ipamv1.HealthCheckResponse{Status: ipamv1.ServingStatusNotServing, Failures: failures}, nil
	}
	return &ipamv1.HealthCheckResponse{Status: ipamv1.ServingStatusServing}, nil
}
