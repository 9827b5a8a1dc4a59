package user

import "strings"

// Role is the platform-wide access level attached to a principal.
type Role string

const (
	RoleUser         Role = "user"
	RoleCommissioner Role = "commissioner"
	RoleSuperadmin   Role = "superadmin"
)

var AllRoles = map[Role]struct{}{
	RoleUser:         {},
	RoleCommissioner: {},
	RoleSuperadmin:   {},
}

// Principal is the authenticated caller as resolved by the account service.
type Principal struct {
	UserID   string
	Username string
	Role     Role
}

func (p Principal) IsSuperadmin() bool {
	return p.Role == RoleSuperadmin
}

func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := AllRoles[role]; !ok {
		return "", false
	}

	return role, true
}
