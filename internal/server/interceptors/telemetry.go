package interceptors

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TelemetryUnary returns a unary server interceptor that emits one OTel log record per RPC with
// method, status code, duration, client IP and the acting identity. A nil logger disables it.
// skipMethods is the set of full method names not to record (e.g. HealthCheck).
func TelemetryUnary(logger otellog.Logger, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if logger == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		code := status.Code(err)

		var rec otellog.Record
		rec.SetTimestamp(start.UTC())
		rec.SetEventName("grpc_request")
		rec.SetSeverity(severityFor(code))
		rec.SetBody(otellog.StringValue(info.FullMethod + " " + code.String()))
		rec.AddAttributes(
			otellog.String("rpc.method", info.FullMethod),
			otellog.String("rpc.grpc.status_code", code.String()),
			otellog.Int64("duration_ms", time.Since(start).Milliseconds()),
			otellog.String("client_ip", ClientIP(ctx)),
		)
		if userID, _ := GetUserID(ctx); userID != "" {
			rec.AddAttributes(otellog.String("user_id", userID))
		}
		if companyID, _ := GetCompanyID(ctx); companyID != "" {
			rec.AddAttributes(otellog.String("company_id", companyID))
		}
		if role, _ := GetRole(ctx); role != "" {
			rec.AddAttributes(otellog.String("role", role))
		}
		logger.Emit(ctx, rec)
		return resp, err
	}
}

// severityFor treats server faults as errors and caller mistakes as warnings.
func severityFor(code codes.Code) otellog.Severity {
	switch code {
	case codes.OK:
		return otellog.SeverityInfo
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		return otellog.SeverityError
	default:
		return otellog.SeverityWarn
	}
}
