package repository

import (
	"context"
	"errors"

	"ipam-control-plane/internal/iprequest/domain"
)

// ErrStaleRequest is returned by UpdateDecision when the row is no longer pending.
var ErrStaleRequest = errors.New("request decided concurrently")

// Filter narrows List. Zero values mean "any".
type Filter struct {
	CompanyID string
	Status    domain.Status
	Type      domain.Type
	Limit     int
	Offset    int
}

// Repository defines persistence for IP requests.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Request, error)
	Create(ctx context.Context, r *domain.Request) error
	// UpdateDecision persists a transition out of pending: status, address, rejection reason,
	// approver and responded-at. The row must still be pending.
	UpdateDecision(ctx context.Context, r *domain.Request) error
	List(ctx context.Context, f Filter) ([]*domain.Request, error)
}
