// Package authz decides whether an authenticated actor may invoke an RPC, using an OPA Rego policy.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const policyQuery = "data.ipam.authz.allow"

// DefaultPolicy lets approvers decide and read, and lets company users file, withdraw and read
// requests on behalf of their own company.
const DefaultPolicy = `package ipam.authz

default allow := false

approver_actions := {"approve", "reject", "get", "list"}

company_actions := {"create", "cancel", "get", "list"}

allow if {
	input.role == "approver"
	input.action in approver_actions
}

allow if {
	input.role == "company"
	input.company_id != ""
	input.action in company_actions
}
`

// Input is the document the policy is evaluated against.
type Input struct {
	UserID    string
	CompanyID string
	Role      string
	Method    string
	Target
}

func (in Input) toMap() map[string]any {
	return map[string]any{
		"user_id":    in.UserID,
		"company_id": in.CompanyID,
		"role":       in.Role,
		"method":     in.Method,
		"resource":   in.Resource,
		"action":     in.Action,
	}
}

// Authorizer answers allow/deny for one RPC call.
type Authorizer interface {
	Allow(ctx context.Context, in Input) (bool, error)
}

// OPAAuthorizer evaluates a compiled Rego policy in process.
type OPAAuthorizer struct {
	query rego.PreparedEvalQuery
}

// NewOPAAuthorizer compiles policy, or DefaultPolicy when policy is empty. The policy must define
// data.ipam.authz.allow.
func NewOPAAuthorizer(ctx context.Context, policy string) (*OPAAuthorizer, error) {
	if policy == "" {
		policy = DefaultPolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"authz.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("authz: compile policy: %w", err)
	}
	query, err := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("authz: prepare policy: %w", err)
	}
	return &OPAAuthorizer{query: query}, nil
}

// Allow evaluates the policy. An undefined or non-boolean result denies.
func (a *OPAAuthorizer) Allow(ctx context.Context, in Input) (bool, error) {
	rs, err := a.query.Eval(ctx, rego.EvalInput(in.toMap()))
	if err != nil {
		return false, fmt.Errorf("authz: eval: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	return ok && allowed, nil
}

// HealthCheck evaluates the policy against a probe input and fails if it yields no decision.
func (a *OPAAuthorizer) HealthCheck(ctx context.Context) error {
	rs, err := a.query.Eval(ctx, rego.EvalInput(Input{Role: "probe", Target: Target{Resource: "health", Action: "check"}}.toMap()))
	if err != nil {
		return fmt.Errorf("authz: eval probe: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return errors.New("authz: policy query returned no result")
	}
	if _, ok := rs[0].Expressions[0].Value.(bool); !ok {
		return errors.New("authz: policy allow is not a boolean")
	}
	return nil
}
