package service

import (
	"context"
	"errors"
	"testing"

	"github.com/paradeops/leave-gin/internal/auth"
	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/repository"
	"github.com/paradeops/leave-gin/internal/workflow"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUserService 创建用户服务测试环境
func setupUserService(t *testing.T) (*testEnv, UserService) {
	env := setupTestEnv(t, LeavePolicy{})
	userRepo := repository.NewUserRepository(env.db)
	auditSvc := NewAuditLogService(env.auditRepo)
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return env, NewUserService(userRepo, auditSvc, logger)
}

// TestUserService_RegisterAndLogin 测试注册和登录
func TestUserService_RegisterAndLogin(t *testing.T) {
	_, userSvc := setupUserService(t)
	ctx := context.Background()

	user := &model.UserModel{
		ServiceNumber: "SN-300",
		Name:          "Test Soldier",
		Rank:          "Pte",
		Role:          string(workflow.RoleSoldier),
		Unit:          "A Coy",
	}
	require.NoError(t, userSvc.Register(user, "s3cret"))
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	// 正确凭证
	got, err := userSvc.Login(ctx, "SN-300", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// 错误密码和未知军号返回同一个错误
	_, err = userSvc.Login(ctx, "SN-300", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = userSvc.Login(ctx, "SN-999", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// 空凭证是参数错误
	_, err = userSvc.Login(ctx, "", "")
	assert.True(t, IsValidationError(err))
}

// TestUserService_Register_Validation 测试注册参数校验
func TestUserService_Register_Validation(t *testing.T) {
	_, userSvc := setupUserService(t)

	err := userSvc.Register(&model.UserModel{ServiceNumber: "SN-301"}, "")
	assert.True(t, IsValidationError(err))

	// 非法角色
	err = userSvc.Register(&model.UserModel{
		ServiceNumber: "SN-302",
		Name:          "Bad Role",
		Rank:          "Pte",
		Role:          "general",
		Unit:          "A Coy",
	}, "s3cret")
	assert.True(t, IsValidationError(err))
}

// failingAuditLogService 写入总是失败的审计服务
type failingAuditLogService struct {
	called bool
}

func (f *failingAuditLogService) RecordAction(ctx context.Context, userID uint, action string, tableName string, recordID uint) error {
	f.called = true
	return errors.New("audit store unavailable")
}

// TestUserService_Login_AuditFailureSurfaced 审计写入失败不影响登录,但必须记错误日志
func TestUserService_Login_AuditFailureSurfaced(t *testing.T) {
	env := setupTestEnv(t, LeavePolicy{})
	userRepo := repository.NewUserRepository(env.db)
	audit := &failingAuditLogService{}
	logger, hook := logtest.NewNullLogger()
	userSvc := NewUserService(userRepo, audit, logger)

	user := &model.UserModel{
		ServiceNumber: "SN-320",
		Name:          "Audit Case",
		Rank:          "Pte",
		Role:          string(workflow.RoleSoldier),
		Unit:          "A Coy",
	}
	require.NoError(t, userSvc.Register(user, "s3cret"))

	got, err := userSvc.Login(context.Background(), "SN-320", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.True(t, audit.called)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "failed to write audit log", entry.Message)
}

// TestUserService_GetAndList 测试用户查询权限
func TestUserService_GetAndList(t *testing.T) {
	env, userSvc := setupUserService(t)

	soldier := env.createUser(t, "SN-310", workflow.RoleSoldier, "A Coy")
	other := env.createUser(t, "SN-311", workflow.RoleSoldier, "A Coy")
	adjutant := env.createUser(t, "SN-312", workflow.RoleAdjutant, "HQ Coy")
	co := env.createUser(t, "SN-313", workflow.RoleCommandingOfficer, "HQ Coy")
	coyComd := env.createUser(t, "SN-314", workflow.RoleCoyComd, "A Coy")

	// 本人可查自己
	_, err := userSvc.Get(soldier, soldier.ID)
	assert.NoError(t, err)

	// 士兵和连长不能查他人
	_, err = userSvc.Get(soldier, other.ID)
	assert.ErrorIs(t, err, workflow.ErrForbidden)
	_, err = userSvc.Get(coyComd, other.ID)
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	// 副官和指挥官可查任意用户
	_, err = userSvc.Get(adjutant, other.ID)
	assert.NoError(t, err)
	_, err = userSvc.Get(co, other.ID)
	assert.NoError(t, err)

	// 用户列表仅副官/指挥官可用
	users, err := userSvc.List(adjutant)
	require.NoError(t, err)
	assert.Len(t, users, 5)
	_, err = userSvc.List(soldier)
	assert.ErrorIs(t, err, workflow.ErrForbidden)
	_, err = userSvc.List(&auth.Actor{ID: coyComd.ID, Role: workflow.RoleCoyComd, Unit: "A Coy"})
	assert.ErrorIs(t, err, workflow.ErrForbidden)
}
