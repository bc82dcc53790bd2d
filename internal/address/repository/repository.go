package repository

import (
	"context"
	"errors"
	"time"

	"ipam-control-plane/internal/address/domain"
)

// ErrStaleAddress is returned by a mutator when the row no longer has the status the caller read.
var ErrStaleAddress = errors.New("address changed concurrently")

// Repository defines persistence for addresses. Mutators run on the caller's transaction and
// do not decide business legality.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Address, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Address, error)
	FindAvailableInRoom(ctx context.Context, roomID string) (*domain.Address, error)
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Address, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Address, error)
	Create(ctx context.Context, a *domain.Address) error
	Assign(ctx context.Context, a *domain.Address, asg domain.Assignment, at time.Time) (*domain.Address, error)
	Release(ctx context.Context, a *domain.Address, at time.Time) (*domain.Address, error)
	Renew(ctx context.Context, a *domain.Address, expiresAt *time.Time, at time.Time) (*domain.Address, error)
}
