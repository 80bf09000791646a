package auth

import "testing"

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleManager, true},
		{RoleUser, true},
		{Role("superadmin"), false},
		{Role(""), false},
		{Role("Admin"), false}, // roles are case-sensitive
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Valid(); got != tt.want {
				t.Errorf("Role(%q).Valid() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestRoleSet_Contains(t *testing.T) {
	s := NewRoleSet(RoleAdmin, RoleManager)
	if !s.Contains(RoleAdmin) {
		t.Error("set should contain admin")
	}
	if !s.Contains(RoleManager) {
		t.Error("set should contain manager")
	}
	if s.Contains(RoleUser) {
		t.Error("set should not contain user")
	}
	if s.Contains(Role("")) {
		t.Error("set should not contain empty role")
	}
}

// The per-operation sets enforce destructive operations as admin-only.
func TestOperationRoleSets(t *testing.T) {
	tests := []struct {
		name    string
		set     RoleSet
		admin   bool
		manager bool
		user    bool
	}{
		{"APIKeyWrite", APIKeyWrite, true, true, false},
		{"APIKeyRevoke", APIKeyRevoke, true, false, false},
		{"UserWrite", UserWrite, true, true, false},
		{"UserDeactivate", UserDeactivate, true, false, false},
		{"ProjectWrite", ProjectWrite, true, true, false},
		{"ProjectDelete", ProjectDelete, true, false, false},
		{"AuditRead", AuditRead, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Contains(RoleAdmin); got != tt.admin {
				t.Errorf("admin = %v, want %v", got, tt.admin)
			}
			if got := tt.set.Contains(RoleManager); got != tt.manager {
				t.Errorf("manager = %v, want %v", got, tt.manager)
			}
			if got := tt.set.Contains(RoleUser); got != tt.user {
				t.Errorf("user = %v, want %v", got, tt.user)
			}
		})
	}
}
