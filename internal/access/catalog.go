package access

import "workpulse/internal/models"

// rolePermissions maps each role to its granted permissions.
// This is the single source of truth for the authorisation model.
var rolePermissions = map[models.Role][]models.Permission{
	models.RoleSuperAdmin: {
		models.PermViewDashboard,
		models.PermViewActivity,
		models.PermViewScreenshots,
		models.PermViewReports,
		models.PermExportReports,
		models.PermManageEmployees,
		models.PermManageDevices,
		models.PermManageInvites,
		models.PermManageSettings,
		models.PermManageBilling,
		models.PermManageCompanies,
		models.PermViewPlatform,
	},
	models.RoleCompanyAdmin: {
		models.PermViewDashboard,
		models.PermViewActivity,
		models.PermViewScreenshots,
		models.PermViewReports,
		models.PermExportReports,
		models.PermManageEmployees,
		models.PermManageDevices,
		models.PermManageInvites,
		models.PermManageSettings,
		models.PermManageBilling,
	},
	models.RoleSubAdmin: {
		models.PermViewDashboard,
		models.PermViewActivity,
		models.PermViewScreenshots,
		models.PermViewReports,
		models.PermManageEmployees,
		models.PermManageDevices,
	},
	models.RoleUser: {
		models.PermViewDashboard,
		models.PermViewActivity,
	},
}

// fallbackRole is used for any role outside the closed set, including the
// empty role of an unauthenticated read.
const fallbackRole = models.RoleUser

func resolve(role models.Role) []models.Permission {
	if perms, ok := rolePermissions[role]; ok {
		return perms
	}
	return rolePermissions[fallbackRole]
}

// PermissionsOf returns a copy of the permissions granted to role.
// Unknown roles are treated as the least-privileged role.
func PermissionsOf(role models.Role) []models.Permission {
	perms := resolve(role)
	result := make([]models.Permission, len(perms))
	copy(result, perms)
	return result
}

// HasPermission returns true if role grants perm.
func HasPermission(role models.Role, perm models.Permission) bool {
	for _, p := range resolve(role) {
		if p == perm {
			return true
		}
	}
	return false
}
