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
)

// LeaveService 休假申请服务接口
type LeaveService interface {
	Create(ctx context.Context, actor *auth.Actor, req *CreateLeaveRequest) (*model.LeaveRequestModel, error)
	Get(actor *auth.Actor, id uint) (*model.LeaveRequestModel, error)
	List(actor *auth.Actor, opts *ListOptions) ([]*model.LeaveRequestModel, error)
	Approve(ctx context.Context, actor *auth.Actor, id uint, remarks string) error
	Reject(ctx context.Context, actor *auth.Actor, id uint, reason string) error
	Delete(ctx context.Context, actor *auth.Actor, id uint) error
	ListTypes() ([]*model.LeaveTypeModel, error)
}

// CreateLeaveRequest 创建休假申请的请求参数
type CreateLeaveRequest struct {
	LeaveTypeID uint   `json:"leave_type_id" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate     string `json:"end_date" binding:"required"`
	Days        int    `json:"days" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Address     string `json:"address_on_leave"`
	Contact     string `json:"contact_number"`
}

// ListOptions 列表查询参数
type ListOptions struct {
	Status string // 可选的状态过滤
	Unit   string // 可选的单位过滤,仅部分角色可用
}

// LeavePolicy 审批流程策略
type LeavePolicy struct {
	// EnforceBalance 为 true 时创建申请会校验剩余余额
	EnforceBalance bool
	// RejectOnlyPending 为 true 时仅允许从 pending 拒绝
	RejectOnlyPending bool
}

// leaveService 休假申请服务实现
type leaveService struct {
	leaveRepo   repository.LeaveRepository
	typeRepo    repository.LeaveTypeRepository
	balanceSvc  BalanceService
	auditLogSvc AuditLogService
	machine     *workflow.Machine
	policy      LeavePolicy
	logger      *logrus.Logger
}

// NewLeaveService 创建休假申请服务
func NewLeaveService(
	leaveRepo repository.LeaveRepository,
	typeRepo repository.LeaveTypeRepository,
	balanceSvc BalanceService,
	auditLogSvc AuditLogService,
	policy LeavePolicy,
	logger *logrus.Logger,
) LeaveService {
	machine := workflow.NewMachine()
	machine.RejectOnlyPending = policy.RejectOnlyPending

	return &leaveService{
		leaveRepo:   leaveRepo,
		typeRepo:    typeRepo,
		balanceSvc:  balanceSvc,
		auditLogSvc: auditLogSvc,
		machine:     machine,
		policy:      policy,
		logger:      logger,
	}
}

const dateLayout = "2006-01-02"

// Create 创建休假申请
// 申请人总是操作者本人,初始状态为 pending
func (s *leaveService) Create(ctx context.Context, actor *auth.Actor, req *CreateLeaveRequest) (*model.LeaveRequestModel, error) {
	if req.Reason == "" {
		return nil, NewValidationError("reason is required")
	}
	if req.Days <= 0 {
		return nil, NewValidationError("days must be positive")
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, NewValidationError("invalid start date: %s", req.StartDate)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, NewValidationError("invalid end date: %s", req.EndDate)
	}
	if end.Before(start) {
		return nil, NewValidationError("end date must not be before start date")
	}

	// 申请天数不能超过日期跨度
	span := int(end.Sub(start).Hours()/24) + 1
	if req.Days > span {
		return nil, NewValidationError("days requested (%d) exceeds date span (%d)", req.Days, span)
	}

	// 休假类型必须存在
	if _, err := s.typeRepo.FindByID(req.LeaveTypeID); err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			return nil, NewValidationError("unknown leave type: %d", req.LeaveTypeID)
		}
		return nil, err
	}

	// 余额校验是可配置策略,默认余额只用于展示
	if s.policy.EnforceBalance {
		remaining, err := s.balanceSvc.Remaining(actor.ID, req.LeaveTypeID)
		if err != nil {
			return nil, err
		}
		if req.Days > remaining {
			return nil, NewValidationError("insufficient balance: %d days requested, %d remaining", req.Days, remaining)
		}
	}

	leave := &model.LeaveRequestModel{
		UserID:      actor.ID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Days:        req.Days,
		Reason:      req.Reason,
		Address:     req.Address,
		Contact:     req.Contact,
		Status:      string(workflow.StatusPending),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.leaveRepo.Create(leave); err != nil {
		return nil, err
	}

	metrics.RecordLeaveCreated()
	s.recordAudit(ctx, actor.ID, "create_leave_request", leave.ID)

	return leave, nil
}

// Get 获取单条休假申请,带可见性过滤
func (s *leaveService) Get(actor *auth.Actor, id uint) (*model.LeaveRequestModel, error) {
	leave, err := s.leaveRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewRequest(actor, leave) {
		return nil, workflow.ErrForbidden
	}
	return leave, nil
}

// List 按角色范围查询休假申请
func (s *leaveService) List(actor *auth.Actor, opts *ListOptions) ([]*model.LeaveRequestModel, error) {
	filter := &repository.LeaveFilter{}

	switch actor.Role {
	case workflow.RoleSoldier:
		// 士兵只能看到自己的申请
		userID := actor.ID
		filter.UserID = &userID
	case workflow.RoleCoyComd:
		// 连长限定本单位,并且只看与自己审批相关的状态窗口
		unit := actor.Unit
		filter.Unit = &unit
		filter.Statuses = statusStrings(auth.VisibleStatuses(actor.Role))
	case workflow.RoleAdjutant, workflow.RoleBsm:
		filter.Statuses = statusStrings(auth.VisibleStatuses(actor.Role))
	case workflow.RoleCommandingOfficer:
		// 指挥官可见全部
	default:
		return nil, workflow.ErrForbidden
	}

	if opts != nil {
		if opts.Status != "" {
			if !workflow.IsValidStatus(workflow.Status(opts.Status)) {
				return nil, NewValidationError("invalid status: %s", opts.Status)
			}
			status := opts.Status
			filter.Status = &status
		}
		if opts.Unit != "" && auth.CanFilterByUnit(actor.Role) {
			unit := opts.Unit
			filter.Unit = &unit
		}
	}

	return s.leaveRepo.FindByFilter(filter)
}

// Approve 批准当前审批阶段
// 合法性检查全部委托给状态机,仓储层只负责原子持久化
func (s *leaveService) Approve(ctx context.Context, actor *auth.Actor, id uint, remarks string) error {
	leave, err := s.leaveRepo.FindByID(id)
	if err != nil {
		return err
	}

	// 连长只能审批本单位的申请
	if !auth.CanActOnUnit(actor, leave) {
		return workflow.ErrForbidden
	}

	tr, err := s.machine.Approve(workflow.Status(leave.Status), actor.Role)
	if err != nil {
		return err
	}

	if err := s.leaveRepo.ApplyTransition(id, tr, actor.ID, remarks); err != nil {
		return err
	}

	metrics.RecordApproval("approve")
	s.recordAudit(ctx, actor.ID, "approve_leave", id)

	return nil
}

// Reject 拒绝休假申请,进入终态
func (s *leaveService) Reject(ctx context.Context, actor *auth.Actor, id uint, reason string) error {
	leave, err := s.leaveRepo.FindByID(id)
	if err != nil {
		return err
	}

	if !auth.CanActOnUnit(actor, leave) {
		return workflow.ErrForbidden
	}

	tr, err := s.machine.Reject(workflow.Status(leave.Status), actor.Role)
	if err != nil {
		return err
	}

	if err := s.leaveRepo.ApplyTransition(id, tr, actor.ID, reason); err != nil {
		return err
	}

	metrics.RecordApproval("reject")
	s.recordAudit(ctx, actor.ID, "reject_leave", id)

	return nil
}

// Delete 删除休假申请
// 只有申请人本人或副官可以删除,且仅限 pending 状态
func (s *leaveService) Delete(ctx context.Context, actor *auth.Actor, id uint) error {
	leave, err := s.leaveRepo.FindByID(id)
	if err != nil {
		return err
	}

	if !auth.CanDelete(actor, leave) {
		return workflow.ErrForbidden
	}

	if err := s.leaveRepo.DeletePending(id); err != nil {
		return err
	}

	s.recordAudit(ctx, actor.ID, "delete_leave", id)
	return nil
}

// ListTypes 查询所有休假类型
func (s *leaveService) ListTypes() ([]*model.LeaveTypeModel, error) {
	return s.typeRepo.FindAll()
}

// recordAudit 在业务状态提交后写审计日志
// 审计失败不回滚业务状态,但必须记日志并计入指标
func (s *leaveService) recordAudit(ctx context.Context, userID uint, action string, recordID uint) {
	if s.auditLogSvc == nil {
		return
	}
	if err := s.auditLogSvc.RecordAction(ctx, userID, action, "leave_requests", recordID); err != nil {
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

// statusStrings 状态窗口转为字符串切片
func statusStrings(statuses []workflow.Status) []string {
	if len(statuses) == 0 {
		return nil
	}
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
