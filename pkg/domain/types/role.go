package types

import "github.com/m-mizutani/goerr/v2"

// Role is a privilege tier of an admin account. There is no inheritance:
// each role's grants are listed explicitly in the permission table.
type Role string

const (
	// RoleAdmin is the lowest tier, given to every invited account
	RoleAdmin Role = "admin"
	// RoleModerator can triage feedback and inbound messages
	RoleModerator Role = "moderator"
	// RoleSuperAdmin is the highest tier, the only one that can change
	// other accounts' roles
	RoleSuperAdmin Role = "super_admin"
)

// AllRoles returns every recognized role
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleModerator, RoleSuperAdmin}
}

// IsValid reports whether the role is one of the recognized values
func (x Role) IsValid() bool {
	switch x {
	case RoleAdmin, RoleModerator, RoleSuperAdmin:
		return true
	}
	return false
}

func (x Role) String() string {
	return string(x)
}

// ParseRole converts a string into a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", goerr.New("unknown role", goerr.V("role", s))
	}
	return role, nil
}
