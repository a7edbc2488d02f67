package model

import "errors"

// LeaveTypeModel 休假类型数据模型
// MaxDays 是按人按类型的累计上限,不随周期重置
type LeaveTypeModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"leave_type_id"`
	TypeName string `gorm:"type:varchar(64);not null;uniqueIndex" json:"type_name"`
	MaxDays  int    `gorm:"type:int;not null" json:"max_days"`
}

// TableName 指定表名
func (LeaveTypeModel) TableName() string {
	return "leave_types"
}

// Validate 验证休假类型模型
func (ltm *LeaveTypeModel) Validate() error {
	if ltm.TypeName == "" {
		return errors.New("type name is required")
	}
	if ltm.MaxDays <= 0 {
		return errors.New("max days must be positive")
	}
	return nil
}
