package service

import (
	"testing"

	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/repository"
	"github.com/paradeops/leave-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBalanceService_Balance 测试余额计算
func TestBalanceService_Balance(t *testing.T) {
	env := setupTestEnv(t, LeavePolicy{})
	soldier := env.createUser(t, "SN-200", workflow.RoleSoldier, "A Coy")

	// 第二个休假类型
	require.NoError(t, env.db.Create(&model.LeaveTypeModel{TypeName: "sick", MaxDays: 14}).Error)

	typeRepo := repository.NewLeaveTypeRepository(env.db)
	balanceSvc := NewBalanceService(env.leaveRepo, typeRepo)

	// 无任何申请时余额等于上限
	balances, err := balanceSvc.Balance(soldier.ID)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	for _, b := range balances {
		assert.Equal(t, 0, b.UsedDays)
		assert.Equal(t, b.MaxDays, b.RemainingDays)
	}

	// 一条 5 天完全批准的年假(max 30)计入; pending 和 rejected 不计入
	approved := &model.LeaveRequestModel{
		UserID: soldier.ID, LeaveTypeID: 1, StartDate: "2026-02-02", EndDate: "2026-02-06",
		Days: 5, Reason: "leave", Status: string(workflow.StatusApprovedCO),
	}
	require.NoError(t, env.leaveRepo.Create(approved))
	pending := &model.LeaveRequestModel{
		UserID: soldier.ID, LeaveTypeID: 1, StartDate: "2026-03-02", EndDate: "2026-03-06",
		Days: 5, Reason: "leave", Status: string(workflow.StatusPending),
	}
	require.NoError(t, env.leaveRepo.Create(pending))
	rejected := &model.LeaveRequestModel{
		UserID: soldier.ID, LeaveTypeID: 1, StartDate: "2026-04-02", EndDate: "2026-04-06",
		Days: 5, Reason: "leave", Status: string(workflow.StatusRejected),
	}
	require.NoError(t, env.leaveRepo.Create(rejected))

	balances, err = balanceSvc.Balance(soldier.ID)
	require.NoError(t, err)

	byName := make(map[string]TypeBalance, len(balances))
	for _, b := range balances {
		byName[b.TypeName] = b
	}
	assert.Equal(t, 5, byName["annual"].UsedDays)
	assert.Equal(t, 25, byName["annual"].RemainingDays)
	assert.Equal(t, 0, byName["sick"].UsedDays)
	assert.Equal(t, 14, byName["sick"].RemainingDays)
}

// TestBalanceService_Remaining 测试单类型剩余天数
func TestBalanceService_Remaining(t *testing.T) {
	env := setupTestEnv(t, LeavePolicy{})
	soldier := env.createUser(t, "SN-210", workflow.RoleSoldier, "A Coy")

	typeRepo := repository.NewLeaveTypeRepository(env.db)
	balanceSvc := NewBalanceService(env.leaveRepo, typeRepo)

	remaining, err := balanceSvc.Remaining(soldier.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, remaining)

	approved := &model.LeaveRequestModel{
		UserID: soldier.ID, LeaveTypeID: 1, StartDate: "2026-02-02", EndDate: "2026-02-06",
		Days: 5, Reason: "leave", Status: string(workflow.StatusApprovedCO),
	}
	require.NoError(t, env.leaveRepo.Create(approved))

	remaining, err = balanceSvc.Remaining(soldier.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, remaining)

	// 未知类型
	_, err = balanceSvc.Remaining(soldier.ID, 999)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}
