// Package access holds the static role to permission matrix that gates every
// core operation. The matrix is built once at startup and is read-only.
package access

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"pawnledger/internal/core/domain"
)

// Permission names one gated action
type Permission string

const (
	ViewClients      Permission = "view_clients"
	AddClients       Permission = "add_clients"
	EditClients      Permission = "edit_clients"
	DeleteClients    Permission = "delete_clients"
	ViewLoans        Permission = "view_loans"
	AddLoans         Permission = "add_loans"
	EditLoans        Permission = "edit_loans"
	PayLoans         Permission = "pay_loans"
	ViewUnclaimed    Permission = "view_unclaimed"
	AddUnclaimed     Permission = "add_unclaimed"
	ViewSales        Permission = "view_sales"
	AddSales         Permission = "add_sales"
	ViewEmployees    Permission = "view_employees"
	AddEmployees     Permission = "add_employees"
	EditEmployees    Permission = "edit_employees"
	DismissEmployees Permission = "dismiss_employees"
	ViewReports      Permission = "view_reports"
)

// AllPermissions lists the seventeen permissions in table order
var AllPermissions = []Permission{
	ViewClients, AddClients, EditClients, DeleteClients,
	ViewLoans, AddLoans, EditLoans, PayLoans,
	ViewUnclaimed, AddUnclaimed,
	ViewSales, AddSales,
	ViewEmployees, AddEmployees, EditEmployees, DismissEmployees,
	ViewReports,
}

// rolePermissions is the authorization matrix. Anything not listed is denied.
var rolePermissions = map[domain.Role][]Permission{
	domain.RoleAdministrator: AllPermissions,
	domain.RoleMerchandiseManager: {
		ViewClients, AddClients, EditClients, DeleteClients,
		ViewLoans, AddLoans, EditLoans, PayLoans,
		ViewUnclaimed, AddUnclaimed,
		ViewSales, AddSales,
		ViewEmployees,
		ViewReports,
	},
	domain.RoleAppraiserMerchandiser: {
		ViewClients, AddClients,
		ViewLoans, AddLoans, EditLoans, PayLoans,
		ViewUnclaimed, AddUnclaimed,
		ViewSales,
		ViewEmployees,
	},
	domain.RoleSalesManager: {
		ViewClients,
		ViewLoans,
		ViewUnclaimed,
		ViewSales, AddSales,
		ViewEmployees,
		ViewReports,
	},
}

const policyModel = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act
`

// Policy evaluates role permissions. It exposes no mutation methods.
type Policy struct {
	enforcer *casbin.Enforcer
}

// NewPolicy builds the policy from the static matrix
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse access model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create access enforcer: %w", err)
	}

	var rules [][]string
	for role, perms := range rolePermissions {
		for _, perm := range perms {
			rules = append(rules, []string{string(role), string(perm)})
		}
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("failed to load access matrix: %w", err)
	}

	return &Policy{enforcer: enforcer}, nil
}

// MustNewPolicy is NewPolicy that panics on error
func MustNewPolicy() *Policy {
	p, err := NewPolicy()
	if err != nil {
		panic(err)
	}
	return p
}

// Check reports whether role holds perm. Unknown roles are denied.
func (p *Policy) Check(role domain.Role, perm Permission) bool {
	if !role.IsValid() {
		return false
	}
	allowed, err := p.enforcer.Enforce(string(role), string(perm))
	if err != nil {
		return false
	}
	return allowed
}

// Permissions returns the permission set of role as a map, for rendering menus
func (p *Policy) Permissions(role domain.Role) map[Permission]bool {
	out := make(map[Permission]bool, len(AllPermissions))
	for _, perm := range AllPermissions {
		out[perm] = p.Check(role, perm)
	}
	return out
}
