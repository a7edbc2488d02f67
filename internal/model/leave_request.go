package model

import (
	"errors"
	"time"

	"github.com/paradeops/leave-gin/internal/workflow"
)

// LeaveRequestModel 休假申请数据模型
// 每个审批阶段有独立的审批人/时间/备注字段,且最多被写入一次;
// 状态与阶段字段只能由状态机驱动的转移操作一起原子更新
type LeaveRequestModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"request_id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	LeaveTypeID uint   `gorm:"not null;index" json:"leave_type_id"`
	StartDate   string `gorm:"type:date;not null" json:"start_date"` // YYYY-MM-DD
	EndDate     string `gorm:"type:date;not null" json:"end_date"`
	Days        int    `gorm:"type:int;not null" json:"days"`
	Reason      string `gorm:"type:text;not null" json:"reason"`
	Address     string `gorm:"type:text;column:address_on_leave" json:"address_on_leave,omitempty"`
	Contact     string `gorm:"type:varchar(32);column:contact_number" json:"contact_number,omitempty"`
	Status      string `gorm:"type:varchar(32);not null;index" json:"status"`

	// 连长审批阶段
	CoyComdApprovedBy *uint      `gorm:"column:coy_comd_approved_by" json:"coy_comd_approved_by,omitempty"`
	CoyComdApprovedAt *time.Time `gorm:"column:coy_comd_approved_at" json:"coy_comd_approved_at,omitempty"`
	CoyComdRemarks    string     `gorm:"type:text;column:coy_comd_remarks" json:"coy_comd_remarks,omitempty"`

	// 副官审批阶段
	AdjutantApprovedBy *uint      `gorm:"column:adjutant_approved_by" json:"adjutant_approved_by,omitempty"`
	AdjutantApprovedAt *time.Time `gorm:"column:adjutant_approved_at" json:"adjutant_approved_at,omitempty"`
	AdjutantRemarks    string     `gorm:"type:text;column:adjutant_remarks" json:"adjutant_remarks,omitempty"`

	// 军士长审批阶段
	BsmApprovedBy *uint      `gorm:"column:bsm_approved_by" json:"bsm_approved_by,omitempty"`
	BsmApprovedAt *time.Time `gorm:"column:bsm_approved_at" json:"bsm_approved_at,omitempty"`
	BsmRemarks    string     `gorm:"type:text;column:bsm_remarks" json:"bsm_remarks,omitempty"`

	// 指挥官审批阶段
	CoApprovedBy *uint      `gorm:"column:co_approved_by" json:"co_approved_by,omitempty"`
	CoApprovedAt *time.Time `gorm:"column:co_approved_at" json:"co_approved_at,omitempty"`
	CoRemarks    string     `gorm:"type:text;column:co_remarks" json:"co_remarks,omitempty"`

	// 拒绝信息
	RejectedBy      *uint      `gorm:"column:rejected_by" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `gorm:"column:rejected_at" json:"rejected_at,omitempty"`
	RejectionReason string     `gorm:"type:text;column:rejection_reason" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// 关联的申请人信息,列表查询时预加载
	User *UserModel `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (LeaveRequestModel) TableName() string {
	return "leave_requests"
}

// Validate 验证休假申请模型
func (lrm *LeaveRequestModel) Validate() error {
	if lrm.UserID == 0 {
		return errors.New("user ID is required")
	}
	if lrm.LeaveTypeID == 0 {
		return errors.New("leave type ID is required")
	}
	if lrm.StartDate == "" || lrm.EndDate == "" {
		return errors.New("start date and end date are required")
	}
	if lrm.Days <= 0 {
		return errors.New("days must be positive")
	}
	if lrm.Reason == "" {
		return errors.New("reason is required")
	}
	if !workflow.IsValidStatus(workflow.Status(lrm.Status)) {
		return errors.New("invalid status")
	}
	return nil
}

// StageApproval 某个审批阶段的元数据
type StageApproval struct {
	ApprovedBy *uint
	ApprovedAt *time.Time
	Remarks    string
}

// StageApprovals 按审批链顺序返回各阶段元数据
// 用于校验 "阶段字段已填写 iff 状态已越过该阶段" 不变量
func (lrm *LeaveRequestModel) StageApprovals() []StageApproval {
	return []StageApproval{
		{lrm.CoyComdApprovedBy, lrm.CoyComdApprovedAt, lrm.CoyComdRemarks},
		{lrm.AdjutantApprovedBy, lrm.AdjutantApprovedAt, lrm.AdjutantRemarks},
		{lrm.BsmApprovedBy, lrm.BsmApprovedAt, lrm.BsmRemarks},
		{lrm.CoApprovedBy, lrm.CoApprovedAt, lrm.CoRemarks},
	}
}
