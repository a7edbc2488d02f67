package workflow

// Status 休假申请状态
type Status string

const (
	StatusPending          Status = "pending"
	StatusApprovedCoyComd  Status = "approved_coy_comd"
	StatusApprovedAdjutant Status = "approved_adjutant"
	StatusApprovedBsm      Status = "approved_bsm"
	StatusApprovedCO       Status = "approved_co"
	StatusRejected         Status = "rejected"
)

// Role 用户角色
type Role string

const (
	RoleSoldier           Role = "soldier"
	RoleCoyComd           Role = "coy_comd"
	RoleAdjutant          Role = "adjutant"
	RoleBsm               Role = "bsm"
	RoleCommandingOfficer Role = "commanding_officer"
)

// Action 审批动作
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// StageFields 审批阶段对应的数据库字段白名单
// 字段名是编译期固定的常量表,绝不允许由请求输入拼接而来
type StageFields struct {
	Approver string // 审批人字段
	Time     string // 审批时间字段
	Remarks  string // 审批备注字段
}

// stage 审批阶段定义: 当前状态由哪个角色负责,批准后进入哪个状态
type stage struct {
	owner  Role
	next   Status
	fields StageFields
	index  int
}

// transitions 状态转移表
// pending -> approved_coy_comd -> approved_adjutant -> approved_bsm -> approved_co
var transitions = map[Status]stage{
	StatusPending: {
		owner: RoleCoyComd,
		next:  StatusApprovedCoyComd,
		index: 0,
		fields: StageFields{
			Approver: "coy_comd_approved_by",
			Time:     "coy_comd_approved_at",
			Remarks:  "coy_comd_remarks",
		},
	},
	StatusApprovedCoyComd: {
		owner: RoleAdjutant,
		next:  StatusApprovedAdjutant,
		index: 1,
		fields: StageFields{
			Approver: "adjutant_approved_by",
			Time:     "adjutant_approved_at",
			Remarks:  "adjutant_remarks",
		},
	},
	StatusApprovedAdjutant: {
		owner: RoleBsm,
		next:  StatusApprovedBsm,
		index: 2,
		fields: StageFields{
			Approver: "bsm_approved_by",
			Time:     "bsm_approved_at",
			Remarks:  "bsm_remarks",
		},
	},
	StatusApprovedBsm: {
		owner: RoleCommandingOfficer,
		next:  StatusApprovedCO,
		index: 3,
		fields: StageFields{
			Approver: "co_approved_by",
			Time:     "co_approved_at",
			Remarks:  "co_remarks",
		},
	},
}

// validRoles 合法角色集合
var validRoles = map[Role]bool{
	RoleSoldier:           true,
	RoleCoyComd:           true,
	RoleAdjutant:          true,
	RoleBsm:               true,
	RoleCommandingOfficer: true,
}

// validStatuses 合法状态集合
var validStatuses = map[Status]bool{
	StatusPending:          true,
	StatusApprovedCoyComd:  true,
	StatusApprovedAdjutant: true,
	StatusApprovedBsm:      true,
	StatusApprovedCO:       true,
	StatusRejected:         true,
}

// Transition 一次被状态机接受的状态转移
// From 作为乐观并发控制的期望前置状态,持久化层必须以
// "status = From" 为条件做单条原子更新
type Transition struct {
	From   Status
	To     Status
	Fields StageFields // 批准时需要一并写入的阶段字段,拒绝时为空
}

// Machine 审批状态机
type Machine struct {
	// RejectOnlyPending 为 true 时仅允许从 pending 状态拒绝
	// 默认允许当前阶段负责人在任意非终态拒绝
	RejectOnlyPending bool
}

// NewMachine 创建审批状态机
func NewMachine() *Machine {
	return &Machine{}
}

// IsTerminal 判断状态是否为终态
func IsTerminal(s Status) bool {
	return s == StatusApprovedCO || s == StatusRejected
}

// IsValidStatus 判断状态值是否合法
func IsValidStatus(s Status) bool {
	return validStatuses[s]
}

// IsValidRole 判断角色值是否合法
func IsValidRole(r Role) bool {
	return validRoles[r]
}

// StageOwner 返回当前状态的审批负责角色
func StageOwner(s Status) (Role, bool) {
	st, ok := transitions[s]
	if !ok {
		return "", false
	}
	return st.owner, true
}

// StageIndex 返回状态在审批链中的位置,pending 为 0,终态返回链长度
// 用于判断某个阶段的审批字段是否应当已被填写
func StageIndex(s Status) int {
	if st, ok := transitions[s]; ok {
		return st.index
	}
	return len(transitions)
}

// Approve 校验批准操作并返回待执行的状态转移
// 仅当 role 是当前状态的负责角色时成功,否则返回 ErrForbidden;
// 终态返回 ErrInvalidState
func (m *Machine) Approve(current Status, role Role) (*Transition, error) {
	if IsTerminal(current) {
		return nil, ErrInvalidState
	}
	st, ok := transitions[current]
	if !ok {
		return nil, ErrInvalidState
	}
	if st.owner != role {
		return nil, ErrForbidden
	}
	return &Transition{From: current, To: st.next, Fields: st.fields}, nil
}

// Reject 校验拒绝操作并返回待执行的状态转移
// 与批准使用同一张阶段表: 只有当前阶段的负责角色可以拒绝
func (m *Machine) Reject(current Status, role Role) (*Transition, error) {
	if IsTerminal(current) {
		return nil, ErrInvalidState
	}
	if m.RejectOnlyPending && current != StatusPending {
		return nil, ErrInvalidState
	}
	st, ok := transitions[current]
	if !ok {
		return nil, ErrInvalidState
	}
	if st.owner != role {
		return nil, ErrForbidden
	}
	return &Transition{From: current, To: StatusRejected}, nil
}
