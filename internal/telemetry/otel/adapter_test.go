package otel

import (
	"context"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"ipam-control-plane/internal/notify"
)

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	embedded.Logger
	rec     otellog.Record
	emitted int
}

func (r *recordCapture) Emit(_ context.Context, rec otellog.Record) {
	r.rec = rec
	r.emitted++
}

func (r *recordCapture) Enabled(context.Context, otellog.EnabledParameters) bool { return true }

func attributes(rec otellog.Record) map[string]string {
	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	return attrs
}

func TestLogPublisher_NilEvent(t *testing.T) {
	capture := &recordCapture{}
	pub := NewLogPublisherWithLogger(capture)
	if err := pub.Publish(context.Background(), nil); err != nil {
		t.Fatalf("Publish(nil): %v", err)
	}
	if capture.emitted != 0 {
		t.Errorf("emitted = %d, want 0", capture.emitted)
	}
}

func TestLogPublisher_SDKProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	pub := NewLogPublisher(provider)
	if err := pub.Publish(context.Background(), &notify.Event{Type: notify.RequestCreated, RequestID: "r1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestLogPublisher_RecordMapping(t *testing.T) {
	capture := &recordCapture{}
	pub := NewLogPublisherWithLogger(capture)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := &notify.Event{
		ID:          "e1",
		Type:        notify.RequestApproved,
		RequestID:   "r1",
		RequestType: "new",
		CompanyID:   "c1",
		AddressID:   "a1",
		IP:          "10.0.0.5",
		ActorID:     "approver-1",
		OccurredAt:  at,
	}
	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	rec := capture.rec
	if !rec.Timestamp().Equal(at) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp(), at)
	}
	if rec.Severity() != otellog.SeverityInfo {
		t.Errorf("severity = %v, want %v", rec.Severity(), otellog.SeverityInfo)
	}
	if rec.EventName() != "request.approved" {
		t.Errorf("event name = %q, want %q", rec.EventName(), "request.approved")
	}
	var decoded notify.Event
	if err := json.Unmarshal(rec.Body().AsBytes(), &decoded); err != nil {
		t.Fatalf("body is not an event: %v", err)
	}
	if decoded.ID != "e1" || decoded.IP != "10.0.0.5" {
		t.Errorf("body = %+v, want id e1 and ip 10.0.0.5", decoded)
	}
	want := map[string]string{
		"event_type":   "request.approved",
		"request_id":   "r1",
		"request_type": "new",
		"company_id":   "c1",
		"address_id":   "a1",
		"ip":           "10.0.0.5",
		"actor_id":     "approver-1",
	}
	attrs := attributes(rec)
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %q = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestLogPublisher_OmitsEmptyAttributes(t *testing.T) {
	capture := &recordCapture{}
	pub := NewLogPublisherWithLogger(capture)
	before := time.Now().UTC()
	if err := pub.Publish(context.Background(), &notify.Event{Type: notify.AddressExpired, AddressID: "a1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	rec := capture.rec
	attrs := attributes(rec)
	if _, ok := attrs["request_id"]; ok {
		t.Errorf("request_id should not be set, got %q", attrs["request_id"])
	}
	if attrs["address_id"] != "a1" {
		t.Errorf("address_id = %q, want %q", attrs["address_id"], "a1")
	}
	if rec.Severity() != otellog.SeverityWarn {
		t.Errorf("severity = %v, want %v", rec.Severity(), otellog.SeverityWarn)
	}
	if rec.Timestamp().Before(before) {
		t.Errorf("timestamp = %v, want now when the event has none", rec.Timestamp())
	}
}
