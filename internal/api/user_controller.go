package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/paradeops/leave-gin/internal/auth"
	"github.com/paradeops/leave-gin/internal/service"
)

// UserController 用户控制器
type UserController struct {
	userService service.UserService
}

// NewUserController 创建用户控制器
func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// List 查询用户列表
// @Summary      查询用户列表
// @Description  仅副官和指挥官可查询
// @Tags         用户管理
// @Produce      json
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Router       /users [get]
// @Security     BearerAuth
func (c *UserController) List(ctx *gin.Context) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	users, err := c.userService.List(actor)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{
		"count": len(users),
		"users": users,
	})
}

// Get 获取用户详情
func (c *UserController) Get(ctx *gin.Context) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Error(ctx, http.StatusBadRequest, "invalid user ID", ctx.Param("id"))
		return
	}

	user, err := c.userService.Get(actor, uint(id))
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, user)
}
