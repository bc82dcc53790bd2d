package domain

import (
	"errors"
	"time"
)

// Type is the kind of change a request asks for.
type Type string

const (
	TypeNew          Type = "new"
	TypeRenewal      Type = "renewal"
	TypeCancellation Type = "cancellation"
)

// Valid reports whether t is a known request type.
func (t Type) Valid() bool {
	switch t {
	case TypeNew, TypeRenewal, TypeCancellation:
		return true
	}
	return false
}

// NeedsAddress reports whether requests of this type must name an address the company already holds.
func (t Type) NeedsAddress() bool {
	return t == TypeRenewal || t == TypeCancellation
}

// Status is the lifecycle state of a request. Every status except pending is terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s.Terminal()
}

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// ErrNotPending is returned by transition methods when the request has already been decided.
var ErrNotPending = errors.New("request is not pending")

// Request is one lifecycle request by a company against the address inventory.
type Request struct {
	ID              string
	Type            Type
	Status          Status
	CompanyID       string
	AddressID       *string
	RequestedBy     string
	Justification   string
	MACAddress      *string
	HolderName      *string
	Temporary       bool
	RequestedExpiry *time.Time
	RejectionReason *string
	ApprovedBy      *string
	CreatedAt       time.Time
	RespondedAt     *time.Time
}

// IsPending reports whether the request can still transition.
func (r *Request) IsPending() bool {
	return r != nil && r.Status == StatusPending
}

// Approve moves the request to approved.
func (r *Request) Approve(by string, at time.Time) error {
	if !r.IsPending() {
		return ErrNotPending
	}
	r.Status = StatusApproved
	r.ApprovedBy = &by
	r.RespondedAt = &at
	return nil
}

// Reject moves the request to rejected and records the reason verbatim.
func (r *Request) Reject(by, reason string, at time.Time) error {
	if !r.IsPending() {
		return ErrNotPending
	}
	r.Status = StatusRejected
	r.RejectionReason = &reason
	r.ApprovedBy = &by
	r.RespondedAt = &at
	return nil
}

// Cancel moves the request to cancelled.
func (r *Request) Cancel(at time.Time) error {
	if !r.IsPending() {
		return ErrNotPending
	}
	r.Status = StatusCancelled
	r.RespondedAt = &at
	return nil
}
