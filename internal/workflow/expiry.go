package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	historydomain "ipam-control-plane/internal/history/domain"
	"ipam-control-plane/internal/notify"
)

const expiryBatchSize = 100

// ExpireDue releases every in-use address whose expiry is at or before now, one transaction per
// address, writing an expired entry for each. It returns how many addresses were released.
// A failure on one address is logged and the sweep moves on; the failures are joined in err.
func (s *Service) ExpireDue(ctx context.Context, now time.Time) (released int, err error) {
	ctx, end := s.track(ctx, "expire_due")
	defer func() { end(&err) }()

	now = now.UTC().Truncate(time.Microsecond)
	due, err := s.store.Reader().Addresses().ListExpired(ctx, now, expiryBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list expired addresses: %w", err)
	}
	var errs []error
	for _, candidate := range due {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		id := candidate.ID
		var ev *notify.Event
		txErr := s.store.RunInTx(ctx, func(tx Tx) error {
			a, err := tx.Addresses().GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			// renewed or released since it was listed
			if a == nil || !a.Expired(now) {
				return nil
			}
			if _, err := tx.Addresses().Release(ctx, a, now); err != nil {
				return err
			}
			note := fmt.Sprintf("lease expired at %s", a.ExpiresAt.Format(time.RFC3339))
			if err := s.appendAddressEntry(ctx, tx, historydomain.ActionExpired, a, Actor{}, now, &note); err != nil {
				return err
			}
			ev = &notify.Event{
				ID:         s.newID(),
				Type:       notify.AddressExpired,
				CompanyID:  *a.CompanyID,
				AddressID:  a.ID,
				IP:         a.IP,
				ActorID:    SystemActor,
				OccurredAt: now,
			}
			return nil
		})
		if txErr != nil {
			log.Printf("workflow: expire address %s: %v", id, txErr)
			errs = append(errs, fmt.Errorf("expire address %s: %w", id, classify(txErr, nil)))
			continue
		}
		if ev != nil {
			released++
			notify.PublishAsync(s.publisher, ev)
		}
	}
	if released > 0 {
		log.Printf("workflow: released %d expired addresses", released)
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("released", released), attribute.Int("due", len(due)))
	return released, errors.Join(errs...)
}
