package types

// Permission names a single gated operation on the admin surface
type Permission string

const (
	PermFeedbackRead   Permission = "feedback:read"
	PermFeedbackDelete Permission = "feedback:delete"
	PermMessagesRead   Permission = "messages:read"
	PermMessagesDelete Permission = "messages:delete"
	PermAdminsRead     Permission = "admins:read"
	PermAdminsInvite   Permission = "admins:invite"
	PermAdminsSetRole  Permission = "admins:change_role"
)

// AllPermissions returns every recognized permission
func AllPermissions() []Permission {
	return []Permission{
		PermFeedbackRead,
		PermFeedbackDelete,
		PermMessagesRead,
		PermMessagesDelete,
		PermAdminsRead,
		PermAdminsInvite,
		PermAdminsSetRole,
	}
}

// IsValid reports whether the permission is one of the recognized values
func (x Permission) IsValid() bool {
	for _, p := range AllPermissions() {
		if x == p {
			return true
		}
	}
	return false
}

func (x Permission) String() string {
	return string(x)
}
