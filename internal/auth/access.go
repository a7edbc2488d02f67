package auth

import (
	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/workflow"
)

// 访问控制全部基于编译期固定的角色表,
// 角色值绝不参与任何持久化层字段名的拼接

// visibleStatusWindows 各审批角色的可见状态窗口
// 一个角色能看到自己需要处理的阶段和相邻阶段
var visibleStatusWindows = map[workflow.Role][]workflow.Status{
	workflow.RoleCoyComd:  {workflow.StatusPending, workflow.StatusApprovedCoyComd},
	workflow.RoleAdjutant: {workflow.StatusApprovedCoyComd, workflow.StatusApprovedAdjutant},
	workflow.RoleBsm:      {workflow.StatusApprovedAdjutant, workflow.StatusApprovedBsm},
}

// CanListAll 判断角色是否能查看全部申请
func CanListAll(role workflow.Role) bool {
	return role == workflow.RoleCommandingOfficer
}

// VisibleStatuses 返回角色的可见状态窗口
// 返回 nil 表示不按状态限制(指挥官);soldier 不使用状态窗口,
// 只能看到自己的申请
func VisibleStatuses(role workflow.Role) []workflow.Status {
	if window, ok := visibleStatusWindows[role]; ok {
		return window
	}
	return nil
}

// CanViewRequest 判断操作者是否能查看某条申请
func CanViewRequest(actor *Actor, req *model.LeaveRequestModel) bool {
	switch actor.Role {
	case workflow.RoleSoldier:
		return req.UserID == actor.ID
	case workflow.RoleCoyComd:
		// 连长只能查看本单位的申请
		return req.User != nil && req.User.Unit == actor.Unit
	default:
		return true
	}
}

// CanActOnUnit 判断审批角色是否能对该申请所属单位操作
// 只有连长受单位限制,其余审批角色跨单位
func CanActOnUnit(actor *Actor, req *model.LeaveRequestModel) bool {
	if actor.Role != workflow.RoleCoyComd {
		return true
	}
	return req.User != nil && req.User.Unit == actor.Unit
}

// CanDelete 判断操作者是否能删除某条申请
// 仅申请人本人或副官可以删除,且仓储层只允许删除 pending 状态
func CanDelete(actor *Actor, req *model.LeaveRequestModel) bool {
	return req.UserID == actor.ID || actor.Role == workflow.RoleAdjutant
}

// CanViewBalance 判断操作者是否能查看目标用户的假期余额
func CanViewBalance(actor *Actor, targetUserID uint) bool {
	if actor.ID == targetUserID {
		return true
	}
	return actor.Role == workflow.RoleAdjutant || actor.Role == workflow.RoleCommandingOfficer
}

// CanManageUsers 判断角色是否能查看用户列表
func CanManageUsers(role workflow.Role) bool {
	return role == workflow.RoleAdjutant || role == workflow.RoleCommandingOfficer
}

// CanFilterByUnit 判断角色是否能指定 unit 查询参数
func CanFilterByUnit(role workflow.Role) bool {
	return role == workflow.RoleAdjutant || role == workflow.RoleBsm || role == workflow.RoleCommandingOfficer
}
