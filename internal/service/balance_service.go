package service

import (
	"github.com/paradeops/leave-gin/internal/repository"
)

// TypeBalance 某个休假类型的余额
type TypeBalance struct {
	LeaveTypeID   uint   `json:"leave_type_id"`
	TypeName      string `json:"type_name"`
	MaxDays       int    `json:"max_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

// BalanceService 假期余额服务
// 余额是派生数据,每次读取时从已批准的申请历史重新计算,
// 不维护可变的余额字段,避免缓存与台账漂移
type BalanceService interface {
	Balance(userID uint) ([]TypeBalance, error)
	Remaining(userID uint, leaveTypeID uint) (int, error)
}

// balanceService 假期余额服务实现
type balanceService struct {
	leaveRepo repository.LeaveRepository
	typeRepo  repository.LeaveTypeRepository
}

// NewBalanceService 创建假期余额服务
func NewBalanceService(leaveRepo repository.LeaveRepository, typeRepo repository.LeaveTypeRepository) BalanceService {
	return &balanceService{
		leaveRepo: leaveRepo,
		typeRepo:  typeRepo,
	}
}

// Balance 计算用户在所有休假类型下的余额
// 只有完全批准(approved_co)的申请消耗余额,
// pending 和 rejected 的申请不参与计算
func (s *balanceService) Balance(userID uint) ([]TypeBalance, error) {
	types, err := s.typeRepo.FindAll()
	if err != nil {
		return nil, err
	}

	used, err := s.leaveRepo.ApprovedDaysByType(userID)
	if err != nil {
		return nil, err
	}

	balances := make([]TypeBalance, 0, len(types))
	for _, lt := range types {
		u := used[lt.ID]
		balances = append(balances, TypeBalance{
			LeaveTypeID:   lt.ID,
			TypeName:      lt.TypeName,
			MaxDays:       lt.MaxDays,
			UsedDays:      u,
			RemainingDays: lt.MaxDays - u,
		})
	}
	return balances, nil
}

// Remaining 计算用户在某个休假类型下的剩余天数
func (s *balanceService) Remaining(userID uint, leaveTypeID uint) (int, error) {
	lt, err := s.typeRepo.FindByID(leaveTypeID)
	if err != nil {
		return 0, err
	}

	used, err := s.leaveRepo.ApprovedDaysByType(userID)
	if err != nil {
		return 0, err
	}
	return lt.MaxDays - used[lt.ID], nil
}
