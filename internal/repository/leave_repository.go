package repository

import (
	"errors"
	"time"

	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/workflow"
	"gorm.io/gorm"
)

// LeaveRepository 休假申请仓储接口
type LeaveRepository interface {
	Create(req *model.LeaveRequestModel) error
	FindByID(id uint) (*model.LeaveRequestModel, error)
	FindByFilter(filter *LeaveFilter) ([]*model.LeaveRequestModel, error)
	ApplyTransition(id uint, tr *workflow.Transition, actorID uint, remarks string) error
	DeletePending(id uint) error
	ApprovedDaysByType(userID uint) (map[uint]int, error)
}

// LeaveFilter 休假申请查询过滤器
type LeaveFilter struct {
	UserID   *uint
	Unit     *string
	Status   *string
	Statuses []string // 角色可见的状态窗口
}

// leaveRepository 休假申请仓储实现
type leaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository 创建休假申请仓储
func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

// Create 保存新的休假申请
func (r *leaveRepository) Create(req *model.LeaveRequestModel) error {
	return r.db.Create(req).Error
}

// FindByID 根据 ID 查找休假申请
func (r *leaveRepository) FindByID(id uint) (*model.LeaveRequestModel, error) {
	var req model.LeaveRequestModel
	if err := r.db.Preload("User").Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByFilter 根据过滤器查找休假申请
func (r *leaveRepository) FindByFilter(filter *LeaveFilter) ([]*model.LeaveRequestModel, error) {
	var reqs []*model.LeaveRequestModel
	query := r.db.Model(&model.LeaveRequestModel{}).Preload("User")

	if filter != nil {
		if filter.UserID != nil {
			query = query.Where("leave_requests.user_id = ?", *filter.UserID)
		}
		if filter.Unit != nil {
			query = query.Joins("JOIN users ON users.id = leave_requests.user_id").
				Where("users.unit = ?", *filter.Unit)
		}
		if filter.Status != nil {
			query = query.Where("leave_requests.status = ?", *filter.Status)
		}
		if len(filter.Statuses) > 0 {
			query = query.Where("leave_requests.status IN ?", filter.Statuses)
		}
	}

	err := query.Order("leave_requests.created_at DESC").Find(&reqs).Error
	return reqs, err
}

// ApplyTransition 原子地应用一次状态转移
// 更新条件带上期望的前置状态(乐观并发控制),两个并发的
// 审批操作只会有一个命中行,落败方得到 ErrInvalidState;
// 阶段字段的列名全部来自状态机的编译期白名单,不接受外部输入
func (r *leaveRepository) ApplyTransition(id uint, tr *workflow.Transition, actorID uint, remarks string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     string(tr.To),
		"updated_at": now,
	}

	if tr.To == workflow.StatusRejected {
		updates["rejected_by"] = actorID
		updates["rejected_at"] = now
		updates["rejection_reason"] = remarks
	} else {
		updates[tr.Fields.Approver] = actorID
		updates[tr.Fields.Time] = now
		updates[tr.Fields.Remarks] = remarks
	}

	res := r.db.Model(&model.LeaveRequestModel{}).
		Where("id = ? AND status = ?", id, string(tr.From)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 区分记录不存在和状态已被并发修改
		var count int64
		if err := r.db.Model(&model.LeaveRequestModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return workflow.ErrNotFound
		}
		return workflow.ErrInvalidState
	}
	return nil
}

// DeletePending 删除仍处于 pending 状态的申请
// 删除条件同样带上状态,避免与并发审批竞争
func (r *leaveRepository) DeletePending(id uint) error {
	res := r.db.Where("id = ? AND status = ?", id, string(workflow.StatusPending)).
		Delete(&model.LeaveRequestModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&model.LeaveRequestModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return workflow.ErrNotFound
		}
		return workflow.ErrInvalidState
	}
	return nil
}

// ApprovedDaysByType 统计某用户各休假类型下已完全批准的天数
// 余额每次读取时从持久化数据重新计算,不缓存
func (r *leaveRepository) ApprovedDaysByType(userID uint) (map[uint]int, error) {
	type row struct {
		LeaveTypeID uint
		Total       int
	}
	var rows []row
	err := r.db.Model(&model.LeaveRequestModel{}).
		Select("leave_type_id, COALESCE(SUM(days), 0) AS total").
		Where("user_id = ? AND status = ?", userID, string(workflow.StatusApprovedCO)).
		Group("leave_type_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	used := make(map[uint]int, len(rows))
	for _, r := range rows {
		used[r.LeaveTypeID] = r.Total
	}
	return used, nil
}
