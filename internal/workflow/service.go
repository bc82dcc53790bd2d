// Package workflow runs the IP request lifecycle and the approval coordinator. Every mutating
// operation is one transaction covering the address, the request and the audit entries it writes.
package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	addressdomain "ipam-control-plane/internal/address/domain"
	"ipam-control-plane/internal/allocation"
	directorydomain "ipam-control-plane/internal/directory/domain"
	requestdomain "ipam-control-plane/internal/iprequest/domain"
	"ipam-control-plane/internal/notify"
	"ipam-control-plane/internal/platform/apperr"
)

const instrumentationName = "ipam.workflow"

// SystemActor is recorded as performed_by for changes no person made (expiry sweeps).
const SystemActor = "system"

// RequestView is a request with its company, room and address resolved.
type RequestView struct {
	Request *requestdomain.Request
	Company *directorydomain.Company
	Room    *directorydomain.Room
	Address *addressdomain.Address
}

// Service implements create, approve, reject and cancel plus the expiry sweep and read model.
type Service struct {
	store     Store
	resolver  *allocation.Resolver
	publisher notify.Publisher
	now       func() time.Time
	newID     func() string
	tracer    trace.Tracer
	ops       metric.Int64Counter
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPublisher sets where lifecycle events go after commit. Defaults to notify.Nop.
func WithPublisher(p notify.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// NewService returns a Service over store. A nil resolver uses allocation.NewResolver().
func NewService(store Store, resolver *allocation.Resolver, opts ...Option) *Service {
	if resolver == nil {
		resolver = allocation.NewResolver()
	}
	s := &Service{
		store:     store,
		resolver:  resolver,
		publisher: notify.Nop{},
		now:       time.Now,
		newID:     uuid.NewString,
		tracer:    otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	ops, err := otel.Meter(instrumentationName).Int64Counter("ipam.workflow.operations",
		metric.WithDescription("Workflow operations by name and outcome."))
	if err == nil {
		s.ops = ops
	}
	return s
}

// clock returns the current time in UTC at the precision every supported database keeps.
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// track starts a span for op. The returned func ends it and counts the outcome; pass it the
// address of the operation's named error.
func (s *Service) track(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	ctx, span := s.tracer.Start(ctx, "workflow."+op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		outcome := "ok"
		if errp != nil && *errp != nil {
			if k := apperr.KindOf(*errp); k != 0 {
				outcome = k.String()
			} else {
				outcome = "error"
				span.RecordError(*errp)
			}
			span.SetStatus(otelcodes.Error, (*errp).Error())
		}
		span.SetAttributes(attribute.String("outcome", outcome))
		span.End()
		if s.ops != nil {
			s.ops.Add(ctx, 1, metric.WithAttributes(
				attribute.String("operation", op),
				attribute.String("outcome", outcome),
			))
		}
	}
}

func (s *Service) publish(t notify.EventType, view *RequestView, actor string, at time.Time) {
	if view == nil || view.Request == nil {
		return
	}
	req := view.Request
	ev := &notify.Event{
		ID:          s.newID(),
		Type:        t,
		RequestID:   req.ID,
		RequestType: string(req.Type),
		Status:      string(req.Status),
		CompanyID:   req.CompanyID,
		ActorID:     actor,
		OccurredAt:  at,
	}
	if view.Company != nil {
		ev.CompanyName = view.Company.Name
	}
	if view.Address != nil {
		ev.AddressID = view.Address.ID
		ev.IP = view.Address.IP
	}
	if req.RejectionReason != nil {
		ev.Reason = *req.RejectionReason
	}
	notify.PublishAsync(s.publisher, ev)
}

func requestAttrs(id string) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String("request.id", id)}
}
