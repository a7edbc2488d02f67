package service

import (
	"context"
	"errors"
	"time"

	"github.com/paradeops/leave-gin/internal/auth"
	"github.com/paradeops/leave-gin/internal/metrics"
	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/repository"
	"github.com/paradeops/leave-gin/internal/workflow"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserService 用户服务接口
type UserService interface {
	Login(ctx context.Context, serviceNumber string, password string) (*model.UserModel, error)
	Get(actor *auth.Actor, id uint) (*model.UserModel, error)
	List(actor *auth.Actor) ([]*model.UserModel, error)
	Register(user *model.UserModel, password string) error
}

// ErrInvalidCredentials 登录凭证无效
// 军号不存在和密码错误返回同一个错误,不泄露账号是否存在
var ErrInvalidCredentials = errors.New("invalid credentials")

// userService 用户服务实现
type userService struct {
	userRepo    repository.UserRepository
	auditLogSvc AuditLogService
	logger      *logrus.Logger
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository, auditLogSvc AuditLogService, logger *logrus.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		auditLogSvc: auditLogSvc,
		logger:      logger,
	}
}

// Login 校验军号和密码
func (s *userService) Login(ctx context.Context, serviceNumber string, password string) (*model.UserModel, error) {
	if serviceNumber == "" || password == "" {
		return nil, NewValidationError("service number and password are required")
	}

	user, err := s.userRepo.FindByServiceNumber(serviceNumber)
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.recordAudit(ctx, user.ID, "login", user.ID)

	return user, nil
}

// recordAudit 在登录成功后写审计日志
// 审计失败不影响登录结果,但必须记日志并计入指标
func (s *userService) recordAudit(ctx context.Context, userID uint, action string, recordID uint) {
	if s.auditLogSvc == nil {
		return
	}
	if err := s.auditLogSvc.RecordAction(ctx, userID, action, "users", recordID); err != nil {
		metrics.RecordAuditFailure()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"user_id":   userID,
				"action":    action,
				"record_id": recordID,
			}).WithError(err).Error("failed to write audit log")
		}
	}
}

// Get 获取用户信息
// 本人,或副官/指挥官可以查看
func (s *userService) Get(actor *auth.Actor, id uint) (*model.UserModel, error) {
	if actor.ID != id && !auth.CanManageUsers(actor.Role) {
		return nil, workflow.ErrForbidden
	}
	return s.userRepo.FindByID(id)
}

// List 查询所有用户,仅副官/指挥官可用
func (s *userService) List(actor *auth.Actor) ([]*model.UserModel, error) {
	if !auth.CanManageUsers(actor.Role) {
		return nil, workflow.ErrForbidden
	}
	return s.userRepo.FindAll()
}

// Register 创建用户,密码使用 bcrypt 哈希
func (s *userService) Register(user *model.UserModel, password string) error {
	if password == "" {
		return NewValidationError("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := user.Validate(); err != nil {
		return NewValidationError("%s", err.Error())
	}

	return s.userRepo.Save(user)
}
