// roles.go defines the role vocabulary and the per-operation role requirements.
// Authorization is centralized here so handlers declare WHICH requirement an
// endpoint has and middleware enforces it uniformly.
package auth

// Role is an organization-scoped role assigned to each user.
type Role string

const (
	// RoleAdmin has full control within the organization.
	RoleAdmin Role = "admin"
	// RoleManager can manage projects, users, and API keys but not perform
	// destructive or org-wide operations.
	RoleManager Role = "manager"
	// RoleUser has read access plus self-service operations.
	RoleUser Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// RoleSet is a set of roles allowed to perform an operation.
type RoleSet map[Role]bool

// NewRoleSet builds a RoleSet from a list of roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = true
	}
	return s
}

// Contains reports whether the role is in the set.
func (s RoleSet) Contains(r Role) bool {
	return s[r]
}

// Per-operation role requirements. Each protected endpoint references exactly
// one of these sets; there is no endpoint-local role logic anywhere else.
var (
	// API keys: create, list, and rotate require management rights; revoke is
	// admin-only because it invalidates a credential in active use.
	APIKeyWrite  = NewRoleSet(RoleAdmin, RoleManager)
	APIKeyRevoke = NewRoleSet(RoleAdmin)

	// Users: invite and update require management rights; deactivation is
	// admin-only.
	UserWrite      = NewRoleSet(RoleAdmin, RoleManager)
	UserDeactivate = NewRoleSet(RoleAdmin)

	// Projects: create/update require management rights; delete is admin-only.
	ProjectWrite  = NewRoleSet(RoleAdmin, RoleManager)
	ProjectDelete = NewRoleSet(RoleAdmin)

	// Audit logs: the org-wide trail is admin-only. Per-user history is
	// self-or-admin, enforced in the handler because it depends on the
	// target path parameter, not on role alone.
	AuditRead = NewRoleSet(RoleAdmin)
)
