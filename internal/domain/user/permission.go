package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Attendance
	PermissionAttendanceCheckInSelf Permission = "attendance.checkin_self"
	PermissionAttendanceViewOwn     Permission = "attendance.view_own"
	PermissionAttendanceManage      Permission = "attendance.manage"
	PermissionAttendanceViewAll     Permission = "attendance.view_all"
	PermissionAttendanceLinksManage Permission = "attendance.links_manage"

	// Analytics
	PermissionAnalyticsView Permission = "analytics.view"

	// Messaging
	PermissionMessagesSend    Permission = "messages.send"
	PermissionMessagesViewOwn Permission = "messages.view_own"

	// Member Management
	PermissionMembersViewAll Permission = "members.view_all"
	PermissionMembersManage  Permission = "members.manage"

	// Service Calendar
	PermissionScheduleManage Permission = "schedule.manage"
)

// RolePermissions is the single source of truth for role capabilities.
// Handlers and services resolve capabilities through this table instead of
// comparing role names.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceCheckInSelf,
		PermissionAttendanceViewOwn,
		PermissionAttendanceManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceLinksManage,
		PermissionAnalyticsView,
		PermissionMessagesSend,
		PermissionMessagesViewOwn,
		PermissionMembersViewAll,
		PermissionMembersManage,
		PermissionScheduleManage,
	},
	RolePastor: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceCheckInSelf,
		PermissionAttendanceViewOwn,
		PermissionAttendanceManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceLinksManage,
		PermissionAnalyticsView,
		PermissionMessagesSend,
		PermissionMessagesViewOwn,
		PermissionMembersViewAll,
	},
	RoleLeader: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceCheckInSelf,
		PermissionAttendanceViewOwn,
		PermissionAttendanceManage,
		PermissionAttendanceLinksManage,
		PermissionMessagesSend,
		PermissionMessagesViewOwn,
		PermissionMembersViewAll,
	},
	RoleMember: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceCheckInSelf,
		PermissionAttendanceViewOwn,
		PermissionMessagesViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
