package domain

import "time"

// Action is the kind of state change an entry records.
type Action string

const (
	ActionAssigned  Action = "assigned"
	ActionReleased  Action = "released"
	ActionRenewed   Action = "renewed"
	ActionCancelled Action = "cancelled"
	ActionExpired   Action = "expired"
	ActionRequested Action = "requested"
	ActionApproved  Action = "approved"
	ActionRejected  Action = "rejected"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionAssigned, ActionReleased, ActionRenewed, ActionCancelled,
		ActionExpired, ActionRequested, ActionApproved, ActionRejected:
		return true
	}
	return false
}

// Entry is one immutable audit record about an address. Snapshot fields hold the values at the
// time of the change and are never updated afterwards.
type Entry struct {
	ID          string
	AddressID   string
	CompanyID   *string
	Action      Action
	PerformedBy string
	MACAddress  *string
	HolderName  *string
	Notes       *string
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}
