package models

type Permission string

const (
	PermViewDashboard   Permission = "view_dashboard"
	PermViewActivity    Permission = "view_activity"
	PermViewScreenshots Permission = "view_screenshots"
	PermViewReports     Permission = "view_reports"
	PermExportReports   Permission = "export_reports"
	PermManageEmployees Permission = "manage_employees"
	PermManageDevices   Permission = "manage_devices"
	PermManageInvites   Permission = "manage_invites"
	PermManageSettings  Permission = "manage_settings"
	PermManageBilling   Permission = "manage_billing"
	PermManageCompanies Permission = "manage_companies"
	PermViewPlatform    Permission = "view_platform"
)

var AllPermissions = []Permission{
	PermViewDashboard,
	PermViewActivity,
	PermViewScreenshots,
	PermViewReports,
	PermExportReports,
	PermManageEmployees,
	PermManageDevices,
	PermManageInvites,
	PermManageSettings,
	PermManageBilling,
	PermManageCompanies,
	PermViewPlatform,
}

func IsValidPermission(p Permission) bool {
	for _, v := range AllPermissions {
		if p == v {
			return true
		}
	}
	return false
}
