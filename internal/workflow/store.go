package workflow

import (
	"context"
	"time"

	addressdomain "ipam-control-plane/internal/address/domain"
	directorydomain "ipam-control-plane/internal/directory/domain"
	historydomain "ipam-control-plane/internal/history/domain"
	historyrepo "ipam-control-plane/internal/history/repository"
	requestdomain "ipam-control-plane/internal/iprequest/domain"
	requestrepo "ipam-control-plane/internal/iprequest/repository"
)

// AddressRepo is the minimal address repository needed by the workflow.
type AddressRepo interface {
	GetByID(ctx context.Context, id string) (*addressdomain.Address, error)
	GetByIDForUpdate(ctx context.Context, id string) (*addressdomain.Address, error)
	FindAvailableInRoom(ctx context.Context, roomID string) (*addressdomain.Address, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*addressdomain.Address, error)
	Assign(ctx context.Context, a *addressdomain.Address, asg addressdomain.Assignment, at time.Time) (*addressdomain.Address, error)
	Release(ctx context.Context, a *addressdomain.Address, at time.Time) (*addressdomain.Address, error)
	Renew(ctx context.Context, a *addressdomain.Address, expiresAt *time.Time, at time.Time) (*addressdomain.Address, error)
}

// RequestRepo is the minimal request repository needed by the workflow.
type RequestRepo interface {
	GetByID(ctx context.Context, id string) (*requestdomain.Request, error)
	GetByIDForUpdate(ctx context.Context, id string) (*requestdomain.Request, error)
	Create(ctx context.Context, r *requestdomain.Request) error
	UpdateDecision(ctx context.Context, r *requestdomain.Request) error
	List(ctx context.Context, f requestrepo.Filter) ([]*requestdomain.Request, error)
}

// HistoryRepo is the audit trail as seen by the workflow.
type HistoryRepo interface {
	Append(ctx context.Context, e *historydomain.Entry) error
	ListByAddress(ctx context.Context, addressID string) ([]*historydomain.Entry, error)
	List(ctx context.Context, f historyrepo.Filter) ([]*historydomain.Entry, error)
}

// DirectoryRepo resolves companies and their rooms.
type DirectoryRepo interface {
	FindCompanyWithRoom(ctx context.Context, companyID string) (*directorydomain.CompanyWithRoom, error)
}

// Tx groups the repositories bound to one unit of work.
type Tx interface {
	Addresses() AddressRepo
	Requests() RequestRepo
	History() HistoryRepo
	Directory() DirectoryRepo
}

// Store opens units of work. RunInTx commits when fn returns nil and rolls back otherwise,
// returning fn's error unchanged. Reader returns repositories outside any transaction.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
	Reader() Tx
}
