package domain

// Role is a named role granted to a dashboard user.
type Role struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// User is the profile returned by the profile endpoint.
type User struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Avatar          string   `json:"avatar,omitempty"`
	IsAdministrator bool     `json:"isAdministrator,omitempty"`
	Permissions     []string `json:"permissions,omitempty"`
	Roles           []Role   `json:"roles,omitempty"`
}

// RoleNames returns the names of the user's roles in order.
// A nil user or a user without roles yields an empty, non-nil slice.
func (u *User) RoleNames() []string {
	if u == nil {
		return []string{}
	}
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// PermissionList returns a copy of the user's permissions, never nil.
func (u *User) PermissionList() []string {
	if u == nil || len(u.Permissions) == 0 {
		return []string{}
	}
	return append([]string(nil), u.Permissions...)
}
