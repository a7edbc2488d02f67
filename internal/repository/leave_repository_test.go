package repository

import (
	"testing"
	"time"

	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 创建测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.UserModel{},
		&model.LeaveTypeModel{},
		&model.LeaveRequestModel{},
		&model.AuditLogModel{},
	)
	require.NoError(t, err)

	return db
}

// createTestUser 创建测试用户
func createTestUser(t *testing.T, db *gorm.DB, serviceNumber, role, unit string) *model.UserModel {
	user := &model.UserModel{
		ServiceNumber: serviceNumber,
		Name:          "Test " + serviceNumber,
		Rank:          "Pte",
		Role:          role,
		Unit:          unit,
		PasswordHash:  "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestLeave 创建测试休假申请
func createTestLeave(t *testing.T, repo LeaveRepository, userID uint, status string) *model.LeaveRequestModel {
	leave := &model.LeaveRequestModel{
		UserID:      userID,
		LeaveTypeID: 1,
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-05",
		Days:        5,
		Reason:      "family visit",
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(leave))
	return leave
}

// TestLeaveRepository_FindByID 测试按 ID 查询
func TestLeaveRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeaveRepository(db)
	user := createTestUser(t, db, "SN-001", "soldier", "A Coy")
	leave := createTestLeave(t, repo, user.ID, string(workflow.StatusPending))

	found, err := repo.FindByID(leave.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.ID, found.ID)
	require.NotNil(t, found.User)
	assert.Equal(t, "A Coy", found.User.Unit)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

// TestLeaveRepository_ApplyTransition 测试状态转移持久化
func TestLeaveRepository_ApplyTransition(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeaveRepository(db)
	user := createTestUser(t, db, "SN-002", "soldier", "A Coy")
	leave := createTestLeave(t, repo, user.ID, string(workflow.StatusPending))

	machine := workflow.NewMachine()
	tr, err := machine.Approve(workflow.StatusPending, workflow.RoleCoyComd)
	require.NoError(t, err)

	approverID := uint(42)
	require.NoError(t, repo.ApplyTransition(leave.ID, tr, approverID, "looks good"))

	found, err := repo.FindByID(leave.ID)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusApprovedCoyComd), found.Status)
	require.NotNil(t, found.CoyComdApprovedBy)
	assert.Equal(t, approverID, *found.CoyComdApprovedBy)
	assert.NotNil(t, found.CoyComdApprovedAt)
	assert.Equal(t, "looks good", found.CoyComdRemarks)

	// 后续阶段字段仍为空
	assert.Nil(t, found.AdjutantApprovedBy)
	assert.Nil(t, found.BsmApprovedBy)
	assert.Nil(t, found.CoApprovedBy)
}

// TestLeaveRepository_ApplyTransition_StaleState 测试过期前置状态
// 同一个转移应用两次,第二次因前置状态不匹配失败
func TestLeaveRepository_ApplyTransition_StaleState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeaveRepository(db)
	user := createTestUser(t, db, "SN-003", "soldier", "A Coy")
	leave := createTestLeave(t, repo, user.ID, string(workflow.StatusPending))

	machine := workflow.NewMachine()
	tr, err := machine.Approve(workflow.StatusPending, workflow.RoleCoyComd)
	require.NoError(t, err)

	require.NoError(t, repo.ApplyTransition(leave.ID, tr, 42, ""))

	// 第二次应用同一转移,行已不在 pending 状态
	err = repo.ApplyTransition(leave.ID, tr, 43, "")
	assert.ErrorIs(t, err, workflow.ErrInvalidState)

	// 记录不存在
	err = repo.ApplyTransition(9999, tr, 42, "")
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

// TestLeaveRepository_ApplyTransition_Reject 测试拒绝转移持久化
func TestLeaveRepository_ApplyTransition_Reject(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeaveRepository(db)
	user := createTestUser(t, db, "SN-004", "soldier", "A Coy")
	leave := createTestLeave(t, repo, user.ID, string(workflow.StatusApprovedCoyComd))

	machine := workflow.NewMachine()
	tr, err := machine.Reject(workflow.StatusApprovedCoyComd, workflow.RoleAdjutant)
	require.NoError(t, err)

	require.NoError(t, repo.ApplyTransition(leave.ID, tr, 7, "dates clash with exercise"))

	found, err := repo.FindByID(leave.ID)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusRejected), found.Status)
	require.NotNil(t, found.RejectedBy)
	assert.Equal(t, uint(7), *found.RejectedBy)
	assert.Equal(t, "dates clash with exercise", found.RejectionReason)
	// 拒绝不写任何阶段审批字段
	assert.Nil(t, found.AdjutantApprovedBy)
}

// TestLeaveRepository_DeletePending 测试删除 pending 申请
func TestLeaveRepository_DeletePending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeaveRepository(db)
	user := createTestUser(t, db, "SN-005", "soldier", "A Coy")

	pending := createTestLeave(t, repo, user.ID, string(workflow.StatusPending))
	require.NoError(t, repo.DeletePending(pending.ID))
	_, err := repo.FindByID(pending.ID)
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	// 非 pending 状态不可删除
	approved := createTestLeave(t, repo, user.ID, string(workflow.StatusApprovedCoyComd))
	err = repo.DeletePending(approved.ID)
	assert.ErrorIs(t, err, workflow.ErrInvalidState)

	err = repo.DeletePending(9999)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

// TestLeaveRepository_FindByFilter 测试过滤查询
func TestLeaveRepository_FindByFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeaveRepository(db)

	alice := createTestUser(t, db, "SN-010", "soldier", "A Coy")
	bob := createTestUser(t, db, "SN-011", "soldier", "B Coy")

	createTestLeave(t, repo, alice.ID, string(workflow.StatusPending))
	createTestLeave(t, repo, alice.ID, string(workflow.StatusApprovedCoyComd))
	createTestLeave(t, repo, bob.ID, string(workflow.StatusPending))

	// 按用户过滤
	byUser, err := repo.FindByFilter(&LeaveFilter{UserID: &alice.ID})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	// 按单位过滤
	unit := "B Coy"
	byUnit, err := repo.FindByFilter(&LeaveFilter{Unit: &unit})
	require.NoError(t, err)
	require.Len(t, byUnit, 1)
	assert.Equal(t, bob.ID, byUnit[0].UserID)

	// 按状态窗口过滤
	byWindow, err := repo.FindByFilter(&LeaveFilter{
		Statuses: []string{string(workflow.StatusApprovedCoyComd), string(workflow.StatusApprovedAdjutant)},
	})
	require.NoError(t, err)
	assert.Len(t, byWindow, 1)

	// 无过滤返回全部
	all, err := repo.FindByFilter(&LeaveFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// TestLeaveRepository_ApprovedDaysByType 测试已批准天数统计
func TestLeaveRepository_ApprovedDaysByType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeaveRepository(db)
	user := createTestUser(t, db, "SN-020", "soldier", "A Coy")

	// 两条完全批准的年假,一条 pending 不计入
	annual := &model.LeaveRequestModel{
		UserID: user.ID, LeaveTypeID: 1, StartDate: "2026-01-05", EndDate: "2026-01-09",
		Days: 5, Reason: "leave", Status: string(workflow.StatusApprovedCO),
	}
	require.NoError(t, repo.Create(annual))
	annual2 := &model.LeaveRequestModel{
		UserID: user.ID, LeaveTypeID: 1, StartDate: "2026-03-02", EndDate: "2026-03-04",
		Days: 3, Reason: "leave", Status: string(workflow.StatusApprovedCO),
	}
	require.NoError(t, repo.Create(annual2))
	pending := &model.LeaveRequestModel{
		UserID: user.ID, LeaveTypeID: 1, StartDate: "2026-05-01", EndDate: "2026-05-10",
		Days: 10, Reason: "leave", Status: string(workflow.StatusPending),
	}
	require.NoError(t, repo.Create(pending))

	used, err := repo.ApprovedDaysByType(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, used[1])

	// 其他用户不受影响
	other, err := repo.ApprovedDaysByType(9999)
	require.NoError(t, err)
	assert.Empty(t, other)
}
