package domain

import (
	"errors"
	"time"
)

// Status is the allocation state of an address.
type Status string

const (
	StatusAvailable Status = "available"
	StatusInUse     Status = "in_use"
)

// ErrInvalidAssignment is returned by Validate when status and assignment fields disagree.
var ErrInvalidAssignment = errors.New("address status and assignment are inconsistent")

// Address is one network address owned by a room and optionally lent to a company.
// Optional fields are nil when absent.
type Address struct {
	ID            string
	IP            string
	Status        Status
	RoomID        string
	CompanyID     *string
	MACAddress    *string
	HolderName    *string
	Temporary     bool
	ExpiresAt     *time.Time
	LastRenewedAt *time.Time
	AssignedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Assignment is the data stamped onto an address when it is lent to a company.
type Assignment struct {
	CompanyID  string
	MACAddress *string
	HolderName *string
	Temporary  bool
	ExpiresAt  *time.Time
}

// IsAvailable reports whether the address can be assigned.
func (a *Address) IsAvailable() bool {
	return a != nil && a.Status == StatusAvailable
}

// BelongsTo reports whether the address is currently lent to companyID.
func (a *Address) BelongsTo(companyID string) bool {
	return a != nil && a.CompanyID != nil && *a.CompanyID == companyID
}

// Assign marks the address in use by the assignment's company.
func (a *Address) Assign(asg Assignment, at time.Time) {
	company := asg.CompanyID
	a.Status = StatusInUse
	a.CompanyID = &company
	a.MACAddress = asg.MACAddress
	a.HolderName = asg.HolderName
	a.Temporary = asg.Temporary
	a.ExpiresAt = asg.ExpiresAt
	a.AssignedAt = &at
	a.UpdatedAt = at
}

// ClearAssignment is the only way an address returns to available: it drops company, device,
// holder and expiry together so the status invariant cannot be half applied.
func (a *Address) ClearAssignment(at time.Time) {
	a.Status = StatusAvailable
	a.CompanyID = nil
	a.MACAddress = nil
	a.HolderName = nil
	a.ExpiresAt = nil
	a.Temporary = false
	a.AssignedAt = nil
	a.UpdatedAt = at
}

// Renew moves the expiry and forces the address in use.
func (a *Address) Renew(expiresAt *time.Time, at time.Time) {
	a.Status = StatusInUse
	a.ExpiresAt = expiresAt
	a.LastRenewedAt = &at
	a.UpdatedAt = at
}

// Expired reports whether an in-use address has an expiry at or before now.
func (a *Address) Expired(now time.Time) bool {
	return a != nil && a.Status == StatusInUse && a.ExpiresAt != nil && !a.ExpiresAt.After(now)
}

// Validate checks the status invariant: in_use needs a company; available carries no assignment.
func (a *Address) Validate() error {
	switch a.Status {
	case StatusInUse:
		if a.CompanyID == nil || *a.CompanyID == "" {
			return ErrInvalidAssignment
		}
	case StatusAvailable:
		if a.CompanyID != nil || a.MACAddress != nil || a.HolderName != nil || a.ExpiresAt != nil {
			return ErrInvalidAssignment
		}
	default:
		return ErrInvalidAssignment
	}
	return nil
}
