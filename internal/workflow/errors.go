package workflow

import "errors"

var (
	// ErrNotFound 休假申请不存在
	ErrNotFound = errors.New("leave request not found")

	// ErrForbidden 当前角色无权在该审批阶段操作
	ErrForbidden = errors.New("role not authorized for current stage")

	// ErrInvalidState 申请已处于终态,或状态已被并发操作修改
	ErrInvalidState = errors.New("leave request is not in a valid state for this action")
)
