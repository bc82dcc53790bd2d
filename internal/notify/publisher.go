package notify

import (
	"context"
	"errors"
	"log"
	"time"
)

// publishTimeout bounds a single async publish. ShutdownDrainDuration must not be shorter.
const publishTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the gRPC server stops before closing publishers,
// so in-flight async publishes can finish.
const ShutdownDrainDuration = publishTimeout

// Publisher delivers events. Callers use it best-effort: log and ignore errors.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	// Close releases resources. Safe to call more than once.
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, *Event) error { return nil }
func (Nop) Close() error                          { return nil }

// Fanout publishes every event to each non-nil publisher and joins their errors.
type Fanout []Publisher

// NewFanout drops nil publishers. With none left it returns Nop.
func NewFanout(pubs ...Publisher) Publisher {
	var out Fanout
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return Nop{}
	}
	return out
}

func (f Fanout) Publish(ctx context.Context, event *Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishAsync runs Publish in a goroutine with its own timeout so the caller is not blocked and
// request cancellation does not abort the publish. pub and event may be nil.
func PublishAsync(pub Publisher, event *Event) {
	if pub == nil || event == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := pub.Publish(ctx, event); err != nil {
			log.Printf("notify: publish %s for %s failed: %v", event.Type, event.RequestID, err)
		}
	}()
}
