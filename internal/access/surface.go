package access

import "workpulse/internal/models"

// Can is Check under the name the UI surface uses.
func Can(session *models.Session, perm models.Permission) bool {
	return Check(session, perm)
}

// CanAll reports whether every perm is granted. With no perms it reports
// whether a session is present.
func CanAll(session *models.Session, perms ...models.Permission) bool {
	if session == nil {
		return false
	}
	for _, p := range perms {
		if !HasPermission(session.Role, p) {
			return false
		}
	}
	return true
}

// CanAny reports whether at least one perm is granted.
func CanAny(session *models.Session, perms ...models.Permission) bool {
	if session == nil {
		return false
	}
	for _, p := range perms {
		if HasPermission(session.Role, p) {
			return true
		}
	}
	return false
}

// Granted lists the permissions of the session's current role, or nil
// without a session.
func Granted(session *models.Session) []models.Permission {
	if session == nil {
		return nil
	}
	return PermissionsOf(session.Role)
}
