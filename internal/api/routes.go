package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradeops/leave-gin/internal/auth"
	"github.com/paradeops/leave-gin/internal/config"
	"github.com/paradeops/leave-gin/internal/metrics"
	"github.com/paradeops/leave-gin/internal/service"
	"gorm.io/gorm"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	Config         *config.Config
	DB             *gorm.DB
	TokenManager   *auth.TokenManager
	LeaveService   service.LeaveService
	BalanceService service.BalanceService
	UserService    service.UserService
}

// SetupRoutes 配置路由
func SetupRoutes(deps *RouterDeps) *gin.Engine {
	if config.IsProduction(deps.Config) {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(ErrorHandlerMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(deps.Config.CORS.AllowedOrigins))
	router.Use(RateLimitMiddleware(deps.Config.Server.RateLimitRPS, deps.Config.Server.RateLimitBurst))

	// 健康检查
	healthController := NewHealthController(deps.DB)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	authController := NewAuthController(deps.UserService, deps.TokenManager)
	leaveController := NewLeaveController(deps.LeaveService, deps.BalanceService)
	userController := NewUserController(deps.UserService)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		// 认证路由
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authController.Login)
			authGroup.GET("/verify", auth.AuthMiddleware(deps.TokenManager), authController.Verify)
		}

		// 休假管理路由
		leaves := v1.Group("/leaves", auth.AuthMiddleware(deps.TokenManager))
		{
			leaves.POST("", leaveController.Create)
			leaves.GET("", leaveController.List)
			leaves.GET("/types", leaveController.ListTypes)
			leaves.GET("/balance", leaveController.Balance)
			leaves.GET("/balance/:userId", leaveController.Balance)
			leaves.GET("/:id", leaveController.Get)
			leaves.PUT("/:id/approve", leaveController.Approve)
			leaves.PUT("/:id/reject", leaveController.Reject)
			leaves.DELETE("/:id", leaveController.Delete)
		}

		// 用户管理路由
		users := v1.Group("/users", auth.AuthMiddleware(deps.TokenManager))
		{
			users.GET("", userController.List)
			users.GET("/:id", userController.Get)
		}
	}

	// 未匹配路由返回 JSON 404
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "route not found",
			"detail":  c.Request.URL.Path,
		})
	})

	return router
}
