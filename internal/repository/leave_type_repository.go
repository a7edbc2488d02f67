package repository

import (
	"errors"

	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/workflow"
	"gorm.io/gorm"
)

// LeaveTypeRepository 休假类型仓储接口
type LeaveTypeRepository interface {
	Save(lt *model.LeaveTypeModel) error
	FindByID(id uint) (*model.LeaveTypeModel, error)
	FindAll() ([]*model.LeaveTypeModel, error)
}

// leaveTypeRepository 休假类型仓储实现
type leaveTypeRepository struct {
	db *gorm.DB
}

// NewLeaveTypeRepository 创建休假类型仓储
func NewLeaveTypeRepository(db *gorm.DB) LeaveTypeRepository {
	return &leaveTypeRepository{db: db}
}

// Save 保存休假类型
func (r *leaveTypeRepository) Save(lt *model.LeaveTypeModel) error {
	return r.db.Save(lt).Error
}

// FindByID 根据 ID 查找休假类型
func (r *leaveTypeRepository) FindByID(id uint) (*model.LeaveTypeModel, error) {
	var lt model.LeaveTypeModel
	if err := r.db.Where("id = ?", id).First(&lt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &lt, nil
}

// FindAll 查找所有休假类型
func (r *leaveTypeRepository) FindAll() ([]*model.LeaveTypeModel, error) {
	var types []*model.LeaveTypeModel
	err := r.db.Order("type_name ASC").Find(&types).Error
	return types, err
}
