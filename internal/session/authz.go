package session

import (
	"slices"

	"github.com/shopdesk/shopdesk/pkg/domain"
)

// SuperAdminRole is the role name that grants every capability.
const SuperAdminRole = "SUPER_ADMIN"

// HasPermission reports whether perms contains permission.
func HasPermission(perms []string, permission string) bool {
	return slices.Contains(perms, permission)
}

// HasRole reports whether roles contains role.
func HasRole(roles []string, role string) bool {
	return slices.Contains(roles, role)
}

// IsSuperAdmin reports whether roles contains SuperAdminRole.
func IsSuperAdmin(roles []string) bool {
	return HasRole(roles, SuperAdminRole)
}

// IsAdmin reports whether the user carries the administrator flag.
func IsAdmin(u *domain.User) bool {
	return u != nil && u.IsAdministrator
}
