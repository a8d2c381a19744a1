package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
)

// PermissionTable is a flat role-to-operations lookup. There is no
// inheritance between roles; each role lists its allowed operations
// explicitly.
type PermissionTable struct {
	grants map[types.Role]map[types.Permission]struct{}
}

// DefaultPermissionTable returns the built-in role grants.
// super_admin holds every operation including role changes; moderator can
// triage feedback and messages; admin can view and invite.
func DefaultPermissionTable() *PermissionTable {
	return NewPermissionTable(map[types.Role][]types.Permission{
		types.RoleAdmin: {
			types.PermFeedbackRead,
			types.PermMessagesRead,
			types.PermAdminsRead,
			types.PermAdminsInvite,
		},
		types.RoleModerator: {
			types.PermFeedbackRead,
			types.PermFeedbackDelete,
			types.PermMessagesRead,
			types.PermMessagesDelete,
			types.PermAdminsRead,
			types.PermAdminsInvite,
		},
		types.RoleSuperAdmin: {
			types.PermFeedbackRead,
			types.PermFeedbackDelete,
			types.PermMessagesRead,
			types.PermMessagesDelete,
			types.PermAdminsRead,
			types.PermAdminsInvite,
			types.PermAdminsSetRole,
		},
	})
}

// NewPermissionTable builds a table from explicit grants
func NewPermissionTable(grants map[types.Role][]types.Permission) *PermissionTable {
	t := &PermissionTable{
		grants: make(map[types.Role]map[types.Permission]struct{}, len(grants)),
	}
	for role, perms := range grants {
		set := make(map[types.Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		t.grants[role] = set
	}
	return t
}

// Allowed reports whether the role may perform the operation
func (t *PermissionTable) Allowed(role types.Role, perm types.Permission) bool {
	set, ok := t.grants[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// Permissions returns the operations granted to the role
func (t *PermissionTable) Permissions(role types.Role) []types.Permission {
	set, ok := t.grants[role]
	if !ok {
		return nil
	}
	perms := make([]types.Permission, 0, len(set))
	for _, p := range types.AllPermissions() {
		if _, granted := set[p]; granted {
			perms = append(perms, p)
		}
	}
	return perms
}

// Validate checks that every role and permission in the table is known,
// and that super_admin retains the role-change grant so the table cannot
// lock out all role mutations.
func (t *PermissionTable) Validate() error {
	for role, set := range t.grants {
		if !role.IsValid() {
			return goerr.New("unknown role in permission table", goerr.V("role", role))
		}
		for p := range set {
			if !p.IsValid() {
				return goerr.New("unknown permission in permission table",
					goerr.V("role", role), goerr.V("permission", p))
			}
		}
	}
	if !t.Allowed(types.RoleSuperAdmin, types.PermAdminsSetRole) {
		return goerr.New("super_admin must keep the role-change grant")
	}
	return nil
}
