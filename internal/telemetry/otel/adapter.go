package otel

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"

	"ipam-control-plane/internal/notify"
)

const instrumentationName = "ipam.notify"

// LogPublisher writes request lifecycle events as OTel log records: the JSON event is the body and
// the routing fields become attributes.
type LogPublisher struct {
	logger otellog.Logger
}

// NewLogPublisher returns a publisher on the given provider, or on the global provider when nil.
func NewLogPublisher(provider otellog.LoggerProvider) *LogPublisher {
	if provider == nil {
		provider = global.GetLoggerProvider()
	}
	return NewLogPublisherWithLogger(provider.Logger(instrumentationName))
}

// NewLogPublisherWithLogger is used by tests to capture records.
func NewLogPublisherWithLogger(logger otellog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event *notify.Event) error {
	if p == nil || event == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	var rec otellog.Record
	rec.SetTimestamp(event.OccurredAt)
	if event.OccurredAt.IsZero() {
		rec.SetTimestamp(time.Now().UTC())
	}
	rec.SetObservedTimestamp(time.Now().UTC())
	rec.SetSeverity(severityOf(event.Type))
	rec.SetEventName(string(event.Type))
	rec.SetBody(otellog.BytesValue(body))
	addString(&rec, "event_type", string(event.Type))
	addString(&rec, "request_id", event.RequestID)
	addString(&rec, "request_type", event.RequestType)
	addString(&rec, "company_id", event.CompanyID)
	addString(&rec, "address_id", event.AddressID)
	addString(&rec, "ip", event.IP)
	addString(&rec, "actor_id", event.ActorID)
	p.logger.Emit(ctx, rec)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

func addString(rec *otellog.Record, key, value string) {
	if value != "" {
		rec.AddAttributes(otellog.String(key, value))
	}
}

// severityOf marks rejections and expiries as warnings; everything else is informational.
func severityOf(t notify.EventType) otellog.Severity {
	switch t {
	case notify.RequestRejected, notify.AddressExpired:
		return otellog.SeverityWarn
	default:
		return otellog.SeverityInfo
	}
}
