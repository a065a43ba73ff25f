package access

import (
	"context"

	"pawnledger/internal/core/domain"
)

// Identity is the caller as resolved from a live employee row
type Identity struct {
	EmployeeID uint        `json:"employee_id"`
	FullName   string      `json:"full_name"`
	Role       domain.Role `json:"role"`
}

// IdentityResolver looks up the current employee behind a session.
// It must return domain.ErrInactiveAccount for dismissed employees.
type IdentityResolver interface {
	ResolveActive(ctx context.Context, employeeID uint) (*Identity, error)
}

// Gate re-validates the caller and checks the policy before an operation runs
type Gate struct {
	policy   *Policy
	resolver IdentityResolver
}

// NewGate creates a new gate
func NewGate(policy *Policy, resolver IdentityResolver) *Gate {
	return &Gate{policy: policy, resolver: resolver}
}

// Policy returns the underlying static policy
func (g *Gate) Policy() *Policy {
	return g.policy
}

// Authorize resolves employeeID and checks perm.
// A missing or dismissed employee is denied everything.
func (g *Gate) Authorize(ctx context.Context, employeeID uint, perm Permission) (*Identity, error) {
	identity, err := g.resolver.ResolveActive(ctx, employeeID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.ErrInactiveAccount
		}
		return nil, err
	}

	if !g.policy.Check(identity.Role, perm) {
		return nil, domain.ErrForbidden
	}
	return identity, nil
}

// Identify resolves employeeID without checking a permission. Screens open
// to every role, such as the dashboard, use it.
func (g *Gate) Identify(ctx context.Context, employeeID uint) (*Identity, error) {
	identity, err := g.resolver.ResolveActive(ctx, employeeID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.ErrInactiveAccount
		}
		return nil, err
	}
	if !identity.Role.IsValid() {
		return nil, domain.ErrForbidden
	}
	return identity, nil
}
