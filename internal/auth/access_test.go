package auth

import (
	"testing"

	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
)

func requestFrom(userID uint, unit string) *model.LeaveRequestModel {
	return &model.LeaveRequestModel{
		UserID: userID,
		User:   &model.UserModel{ID: userID, Unit: unit},
	}
}

// TestVisibleStatuses 测试角色可见状态窗口
func TestVisibleStatuses(t *testing.T) {
	assert.Equal(t,
		[]workflow.Status{workflow.StatusPending, workflow.StatusApprovedCoyComd},
		VisibleStatuses(workflow.RoleCoyComd))
	assert.Equal(t,
		[]workflow.Status{workflow.StatusApprovedCoyComd, workflow.StatusApprovedAdjutant},
		VisibleStatuses(workflow.RoleAdjutant))
	assert.Equal(t,
		[]workflow.Status{workflow.StatusApprovedAdjutant, workflow.StatusApprovedBsm},
		VisibleStatuses(workflow.RoleBsm))

	// 指挥官和士兵不使用状态窗口
	assert.Nil(t, VisibleStatuses(workflow.RoleCommandingOfficer))
	assert.Nil(t, VisibleStatuses(workflow.RoleSoldier))
}

// TestCanViewRequest 测试单条申请可见性
func TestCanViewRequest(t *testing.T) {
	req := requestFrom(1, "A Coy")

	owner := &Actor{ID: 1, Role: workflow.RoleSoldier, Unit: "A Coy"}
	stranger := &Actor{ID: 2, Role: workflow.RoleSoldier, Unit: "A Coy"}
	sameUnitComd := &Actor{ID: 3, Role: workflow.RoleCoyComd, Unit: "A Coy"}
	otherUnitComd := &Actor{ID: 4, Role: workflow.RoleCoyComd, Unit: "B Coy"}
	adjutant := &Actor{ID: 5, Role: workflow.RoleAdjutant, Unit: "HQ Coy"}

	assert.True(t, CanViewRequest(owner, req))
	assert.False(t, CanViewRequest(stranger, req))
	assert.True(t, CanViewRequest(sameUnitComd, req))
	assert.False(t, CanViewRequest(otherUnitComd, req))
	assert.True(t, CanViewRequest(adjutant, req))
}

// TestCanActOnUnit 测试审批单位边界
func TestCanActOnUnit(t *testing.T) {
	req := requestFrom(1, "A Coy")

	assert.True(t, CanActOnUnit(&Actor{ID: 3, Role: workflow.RoleCoyComd, Unit: "A Coy"}, req))
	assert.False(t, CanActOnUnit(&Actor{ID: 4, Role: workflow.RoleCoyComd, Unit: "B Coy"}, req))
	// 连长以外的审批角色跨单位
	assert.True(t, CanActOnUnit(&Actor{ID: 5, Role: workflow.RoleAdjutant, Unit: "HQ Coy"}, req))
	assert.True(t, CanActOnUnit(&Actor{ID: 6, Role: workflow.RoleBsm, Unit: "HQ Coy"}, req))
	assert.True(t, CanActOnUnit(&Actor{ID: 7, Role: workflow.RoleCommandingOfficer, Unit: "HQ Coy"}, req))
}

// TestCanDelete 测试删除权限
func TestCanDelete(t *testing.T) {
	req := requestFrom(1, "A Coy")

	assert.True(t, CanDelete(&Actor{ID: 1, Role: workflow.RoleSoldier}, req))
	assert.False(t, CanDelete(&Actor{ID: 2, Role: workflow.RoleSoldier}, req))
	assert.True(t, CanDelete(&Actor{ID: 5, Role: workflow.RoleAdjutant}, req))
	assert.False(t, CanDelete(&Actor{ID: 3, Role: workflow.RoleCoyComd}, req))
	assert.False(t, CanDelete(&Actor{ID: 7, Role: workflow.RoleCommandingOfficer}, req))
}

// TestCanViewBalance 测试余额查看权限
func TestCanViewBalance(t *testing.T) {
	assert.True(t, CanViewBalance(&Actor{ID: 1, Role: workflow.RoleSoldier}, 1))
	assert.False(t, CanViewBalance(&Actor{ID: 1, Role: workflow.RoleSoldier}, 2))
	assert.True(t, CanViewBalance(&Actor{ID: 5, Role: workflow.RoleAdjutant}, 2))
	assert.True(t, CanViewBalance(&Actor{ID: 7, Role: workflow.RoleCommandingOfficer}, 2))
	assert.False(t, CanViewBalance(&Actor{ID: 6, Role: workflow.RoleBsm}, 2))
}

// TestCanManageUsers 测试用户管理权限
func TestCanManageUsers(t *testing.T) {
	assert.True(t, CanManageUsers(workflow.RoleAdjutant))
	assert.True(t, CanManageUsers(workflow.RoleCommandingOfficer))
	assert.False(t, CanManageUsers(workflow.RoleSoldier))
	assert.False(t, CanManageUsers(workflow.RoleCoyComd))
	assert.False(t, CanManageUsers(workflow.RoleBsm))
}

// TestCanFilterByUnit 测试单位过滤权限
func TestCanFilterByUnit(t *testing.T) {
	assert.True(t, CanFilterByUnit(workflow.RoleAdjutant))
	assert.True(t, CanFilterByUnit(workflow.RoleBsm))
	assert.True(t, CanFilterByUnit(workflow.RoleCommandingOfficer))
	assert.False(t, CanFilterByUnit(workflow.RoleCoyComd))
	assert.False(t, CanFilterByUnit(workflow.RoleSoldier))
}
