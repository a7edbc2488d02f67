package model

import (
	"errors"
	"time"

	"github.com/paradeops/leave-gin/internal/workflow"
)

// UserModel 用户数据模型
// 角色决定审批权限,与身份本身无关
type UserModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"user_id"`
	ServiceNumber string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"service_number"`
	Name          string    `gorm:"type:varchar(128);not null" json:"name"`
	Rank          string    `gorm:"type:varchar(32)" json:"rank"`
	Role          string    `gorm:"type:varchar(32);not null;index" json:"role"` // soldier/coy_comd/adjutant/bsm/commanding_officer
	Unit          string    `gorm:"type:varchar(64);index" json:"unit"`
	Email         string    `gorm:"type:varchar(128)" json:"email,omitempty"`
	Phone         string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	PasswordHash  string    `gorm:"type:varchar(128);not null" json:"-"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// Validate 验证用户模型
func (um *UserModel) Validate() error {
	if um.ServiceNumber == "" {
		return errors.New("service number is required")
	}
	if um.Name == "" {
		return errors.New("name is required")
	}
	if !workflow.IsValidRole(workflow.Role(um.Role)) {
		return errors.New("invalid role")
	}
	if um.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
