package session

// Role is the visitor's authorization level. The set is closed: a role is
// assigned at login time and does not change without a full re-login.
type Role string

const (
	// RoleStudent is a learner account (own dashboard, courses, tasks)
	RoleStudent Role = "student"
	// RoleParent is a guardian account (student surfaces plus child management)
	RoleParent Role = "parent"
	// RoleAdmin is a platform operator account
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleAdmin:
		return true
	default:
		return false
	}
}

// AllRoles returns all predefined roles
func AllRoles() []Role {
	return []Role{
		RoleStudent,
		RoleParent,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

func roleIn(role Role, roles []Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
