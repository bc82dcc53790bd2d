package workflow

import "ipam-control-plane/internal/platform/apperr"

// Role is what the identity layer says the caller may act as.
type Role string

const (
	RoleCompany  Role = "company"
	RoleApprover Role = "approver"
)

// Actor is the pre-validated caller identity. The workflow trusts it as given.
type Actor struct {
	UserID    string
	CompanyID string
	Role      Role
}

// IsApprover reports whether the actor decides requests rather than filing them.
func (a Actor) IsApprover() bool {
	return a.Role == RoleApprover
}

func (a Actor) requireCompany() error {
	if a.CompanyID == "" {
		return apperr.Unauthorized("caller is not acting for a company")
	}
	return nil
}
