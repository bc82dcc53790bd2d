package repository

import (
	"context"
	"time"

	"ipam-control-plane/internal/history/domain"
)

// Filter narrows List. Zero values mean "any"; From and To bound created_at inclusively.
type Filter struct {
	CompanyID string
	AddressID string
	Action    domain.Action
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// Repository is the append-only audit trail. There is no update or delete.
type Repository interface {
	Append(ctx context.Context, e *domain.Entry) error
	// ListByAddress returns the entries for addressID newest first.
	ListByAddress(ctx context.Context, addressID string) ([]*domain.Entry, error)
	List(ctx context.Context, f Filter) ([]*domain.Entry, error)
}
