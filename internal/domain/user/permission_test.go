package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission_AdminHasEverything(t *testing.T) {
	all := []Permission{
		PermissionAttendanceCheckInSelf,
		PermissionAttendanceManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceLinksManage,
		PermissionAnalyticsView,
		PermissionMessagesSend,
		PermissionMembersManage,
		PermissionScheduleManage,
	}
	for _, p := range all {
		assert.True(t, HasPermission(RoleAdmin, p), "admin should have %s", p)
	}
}

func TestHasPermission_MemberCannotManageAttendance(t *testing.T) {
	assert.False(t, HasPermission(RoleMember, PermissionAttendanceManage))
	assert.False(t, HasPermission(RoleMember, PermissionAttendanceViewAll))
	assert.False(t, HasPermission(RoleMember, PermissionMessagesSend))
	assert.False(t, HasPermission(RoleMember, PermissionMembersManage))
}

func TestHasPermission_MemberSelfService(t *testing.T) {
	assert.True(t, HasPermission(RoleMember, PermissionAttendanceCheckInSelf))
	assert.True(t, HasPermission(RoleMember, PermissionAttendanceViewOwn))
	assert.True(t, HasPermission(RoleMember, PermissionMessagesViewOwn))
}

func TestHasPermission_LeaderCanCheckInOthersButNotViewAnalytics(t *testing.T) {
	assert.True(t, HasPermission(RoleLeader, PermissionAttendanceManage))
	assert.True(t, HasPermission(RoleLeader, PermissionMessagesSend))
	assert.False(t, HasPermission(RoleLeader, PermissionAnalyticsView))
	assert.False(t, HasPermission(RoleLeader, PermissionScheduleManage))
}

func TestHasPermission_UnknownRole(t *testing.T) {
	assert.False(t, HasPermission(Role("visitor"), PermissionAttendanceViewOwn))
}

func TestUser_IsLeader(t *testing.T) {
	cases := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RolePastor, true},
		{RoleLeader, true},
		{RoleMember, false},
	}
	for _, c := range cases {
		u := User{Role: c.role}
		assert.Equal(t, c.want, u.IsLeader(), "role %s", c.role)
	}
}
