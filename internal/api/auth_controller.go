package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradeops/leave-gin/internal/auth"
	"github.com/paradeops/leave-gin/internal/service"
)

// AuthController 认证控制器
type AuthController struct {
	userService  service.UserService
	tokenManager *auth.TokenManager
}

// NewAuthController 创建认证控制器
func NewAuthController(userService service.UserService, tokenManager *auth.TokenManager) *AuthController {
	return &AuthController{
		userService:  userService,
		tokenManager: tokenManager,
	}
}

// LoginRequest 登录请求参数
type LoginRequest struct {
	ServiceNumber string `json:"service_number" binding:"required"` // 军号
	Password      string `json:"password" binding:"required"`       // 密码
}

// Login 用户登录
// @Summary      用户登录
// @Description  使用军号和密码换取访问令牌
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录凭证"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	user, err := c.userService.Login(ctx.Request.Context(), req.ServiceNumber, req.Password)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	token, err := c.tokenManager.IssueToken(user)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Verify 验证访问令牌
// 令牌由认证中间件验证,走到这里说明令牌有效
func (c *AuthController) Verify(ctx *gin.Context) {
	Success(ctx, gin.H{
		"user_id":        ctx.GetUint("user_id"),
		"service_number": ctx.GetString("service_number"),
		"name":           ctx.GetString("name"),
		"role":           ctx.GetString("role"),
		"unit":           ctx.GetString("unit"),
	})
}
