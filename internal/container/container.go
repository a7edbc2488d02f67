package container

import (
	"fmt"
	"time"

	"github.com/paradeops/leave-gin/internal/api"
	"github.com/paradeops/leave-gin/internal/auth"
	"github.com/paradeops/leave-gin/internal/config"
	"github.com/paradeops/leave-gin/internal/database"
	"github.com/paradeops/leave-gin/internal/repository"
	"github.com/paradeops/leave-gin/internal/service"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理所有应用依赖,包括数据库、仓储和服务
type Container struct {
	cfg            *config.Config
	db             *gorm.DB
	tokenManager   *auth.TokenManager
	leaveService   service.LeaveService
	balanceService service.BalanceService
	userService    service.UserService
	auditService   service.AuditLogService
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化日志
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	api.SetLogger(logger)

	// 2. 初始化数据库(带重试机制)
	// 默认重试 3 次,初始间隔 1 秒,指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. 初始化仓储
	leaveRepo := repository.NewLeaveRepository(db)
	typeRepo := repository.NewLeaveTypeRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// 4. 初始化令牌管理器
	ttl := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, ttl)

	// 5. 初始化服务
	auditService := service.NewAuditLogService(auditRepo)
	balanceService := service.NewBalanceService(leaveRepo, typeRepo)
	userService := service.NewUserService(userRepo, auditService, logger)
	leaveService := service.NewLeaveService(
		leaveRepo,
		typeRepo,
		balanceService,
		auditService,
		service.LeavePolicy{
			EnforceBalance:    cfg.Workflow.EnforceBalance,
			RejectOnlyPending: cfg.Workflow.RejectOnlyPending,
		},
		logger,
	)

	return &Container{
		cfg:            cfg,
		db:             db,
		tokenManager:   tokenManager,
		leaveService:   leaveService,
		balanceService: balanceService,
		userService:    userService,
		auditService:   auditService,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// TokenManager 获取令牌管理器
func (c *Container) TokenManager() *auth.TokenManager {
	return c.tokenManager
}

// LeaveService 获取休假申请服务
func (c *Container) LeaveService() service.LeaveService {
	return c.leaveService
}

// BalanceService 获取假期余额服务
func (c *Container) BalanceService() service.BalanceService {
	return c.balanceService
}

// UserService 获取用户服务
func (c *Container) UserService() service.UserService {
	return c.userService
}

// AuditLogService 获取审计日志服务
func (c *Container) AuditLogService() service.AuditLogService {
	return c.auditService
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying database: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
