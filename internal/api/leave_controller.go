package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/paradeops/leave-gin/internal/auth"
	"github.com/paradeops/leave-gin/internal/service"
)

// LeaveController 休假申请控制器
type LeaveController struct {
	leaveService   service.LeaveService
	balanceService service.BalanceService
}

// NewLeaveController 创建休假申请控制器
func NewLeaveController(leaveService service.LeaveService, balanceService service.BalanceService) *LeaveController {
	return &LeaveController{
		leaveService:   leaveService,
		balanceService: balanceService,
	}
}

// ApproveLeaveRequest 批准请求参数
type ApproveLeaveRequest struct {
	Remarks string `json:"remarks"` // 审批备注
}

// RejectLeaveRequest 拒绝请求参数
type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason"` // 拒绝原因
}

// actor 从上下文取出操作者,未认证时返回 401
func (c *LeaveController) actor(ctx *gin.Context) (*auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "unauthenticated", "")
		return nil, false
	}
	return actor, true
}

// requestID 解析路径中的申请 ID
func (c *LeaveController) requestID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Error(ctx, http.StatusBadRequest, "invalid leave request ID", ctx.Param("id"))
		return 0, false
	}
	return uint(id), true
}

// bindOptionalJSON 解析可选的 JSON 请求体
// 空请求体不是错误;不依赖 ContentLength,分块传输时其值为 -1
func (c *LeaveController) bindOptionalJSON(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return false
	}
	return true
}

// List 查询休假申请列表
// @Summary      查询休假申请列表
// @Description  按操作者角色过滤的休假申请列表,支持 status/unit 查询参数
// @Tags         休假管理
// @Produce      json
// @Param        status query string false "状态过滤"
// @Param        unit query string false "单位过滤(仅副官/军士长/指挥官)"
// @Success      200  {object}  Response
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /leaves [get]
// @Security     BearerAuth
func (c *LeaveController) List(ctx *gin.Context) {
	actor, ok := c.actor(ctx)
	if !ok {
		return
	}

	opts := &service.ListOptions{
		Status: ctx.Query("status"),
		Unit:   ctx.Query("unit"),
	}

	leaves, err := c.leaveService.List(actor, opts)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{
		"count":  len(leaves),
		"leaves": leaves,
	})
}

// Get 获取休假申请详情
// @Summary      获取休假申请详情
// @Tags         休假管理
// @Produce      json
// @Param        id path int true "申请 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /leaves/{id} [get]
// @Security     BearerAuth
func (c *LeaveController) Get(ctx *gin.Context) {
	actor, ok := c.actor(ctx)
	if !ok {
		return
	}
	id, ok := c.requestID(ctx)
	if !ok {
		return
	}

	leave, err := c.leaveService.Get(actor, id)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, leave)
}

// Create 提交休假申请
// @Summary      提交休假申请
// @Tags         休假管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateLeaveRequest true "申请信息"
// @Success      201  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /leaves [post]
// @Security     BearerAuth
func (c *LeaveController) Create(ctx *gin.Context) {
	actor, ok := c.actor(ctx)
	if !ok {
		return
	}

	var req service.CreateLeaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	leave, err := c.leaveService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Created(ctx, gin.H{
		"request_id": leave.ID,
		"status":     leave.Status,
	})
}

// Approve 批准当前审批阶段
// @Summary      批准休假申请
// @Description  只有当前审批阶段的负责角色可以批准
// @Tags         休假管理
// @Accept       json
// @Produce      json
// @Param        id path int true "申请 ID"
// @Param        request body ApproveLeaveRequest false "审批备注"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /leaves/{id}/approve [put]
// @Security     BearerAuth
func (c *LeaveController) Approve(ctx *gin.Context) {
	actor, ok := c.actor(ctx)
	if !ok {
		return
	}
	id, ok := c.requestID(ctx)
	if !ok {
		return
	}

	var req ApproveLeaveRequest
	if !c.bindOptionalJSON(ctx, &req) {
		return
	}

	if err := c.leaveService.Approve(ctx.Request.Context(), actor, id, req.Remarks); err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{"message": "leave request approved successfully"})
}

// Reject 拒绝休假申请
func (c *LeaveController) Reject(ctx *gin.Context) {
	actor, ok := c.actor(ctx)
	if !ok {
		return
	}
	id, ok := c.requestID(ctx)
	if !ok {
		return
	}

	var req RejectLeaveRequest
	if !c.bindOptionalJSON(ctx, &req) {
		return
	}

	if err := c.leaveService.Reject(ctx.Request.Context(), actor, id, req.RejectionReason); err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{"message": "leave request rejected successfully"})
}

// Delete 删除休假申请
// 仅 pending 状态可删,且仅限申请人本人或副官
func (c *LeaveController) Delete(ctx *gin.Context) {
	actor, ok := c.actor(ctx)
	if !ok {
		return
	}
	id, ok := c.requestID(ctx)
	if !ok {
		return
	}

	if err := c.leaveService.Delete(ctx.Request.Context(), actor, id); err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{"message": "leave request deleted successfully"})
}

// ListTypes 查询休假类型
func (c *LeaveController) ListTypes(ctx *gin.Context) {
	types, err := c.leaveService.ListTypes()
	if err != nil {
		ServiceError(ctx, err)
		return
	}
	Success(ctx, gin.H{"leave_types": types})
}

// Balance 查询假期余额
// @Summary      查询假期余额
// @Description  不带 userId 查询本人余额;查询他人余额仅限副官/指挥官
// @Tags         休假管理
// @Produce      json
// @Param        userId path int false "目标用户 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Router       /leaves/balance/{userId} [get]
// @Security     BearerAuth
func (c *LeaveController) Balance(ctx *gin.Context) {
	actor, ok := c.actor(ctx)
	if !ok {
		return
	}

	targetID := actor.ID
	if raw := ctx.Param("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			Error(ctx, http.StatusBadRequest, "invalid user ID", raw)
			return
		}
		targetID = uint(id)
	}

	if !auth.CanViewBalance(actor, targetID) {
		Error(ctx, http.StatusForbidden, "access denied", "")
		return
	}

	balance, err := c.balanceService.Balance(targetID)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{"balance": balance})
}
