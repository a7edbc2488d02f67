package model

import (
	"errors"
	"time"
)

// AuditLogModel 审计日志数据模型,仅追加
type AuditLogModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Action    string    `gorm:"type:varchar(64);not null;index" json:"action"` // create_leave_request/approve_leave/reject_leave/delete_leave/login
	Resource  string    `gorm:"type:varchar(64);not null;column:table_name" json:"table_name"`
	RecordID  uint      `gorm:"index" json:"record_id"`
	RequestID string    `gorm:"type:varchar(64);index" json:"request_id,omitempty"`
	IP        string    `gorm:"type:varchar(45)" json:"ip,omitempty"` // IPv4 或 IPv6
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName 指定表名
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// Validate 验证审计日志模型
func (alm *AuditLogModel) Validate() error {
	if alm.ID == "" {
		return errors.New("audit log ID is required")
	}
	if alm.UserID == 0 {
		return errors.New("user ID is required")
	}
	if alm.Action == "" {
		return errors.New("action is required")
	}
	if alm.Resource == "" {
		return errors.New("resource table is required")
	}
	return nil
}
