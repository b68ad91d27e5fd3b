// Package permissions implements the role model and the access control
// engine. Everything here is a pure function over the stored user flags:
// capability is computed on demand and never cached, so a role change
// takes effect on the next check.
package permissions

import "critichub/internal/models"

// IsAdmin reports admin capability. Staff and superuser flags confer it
// regardless of the stored role.
func IsAdmin(u *models.User) bool {
	if u == nil {
		return false
	}
	return u.Role == models.RoleAdmin || u.IsStaff || u.IsSuperuser
}

// IsModerator matches the moderator role exactly; moderator status does
// not imply admin capability.
func IsModerator(u *models.User) bool {
	return u != nil && u.Role == models.RoleModerator
}

// CanModerate reports whether u may edit or delete reviews and comments
// authored by others.
func CanModerate(u *models.User) bool {
	return IsModerator(u) || IsAdmin(u)
}
