package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradeops/leave-gin/internal/database"
	"gorm.io/gorm"
)

// HealthController 健康检查控制器
type HealthController struct {
	db *gorm.DB
}

// NewHealthController 创建健康检查控制器
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Check 健康检查
// @Summary      健康检查
// @Tags         系统
// @Produce      json
// @Success      200  {object}  Response
// @Failure      503  {object}  ErrorResponse
// @Router       /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	if !database.CheckHealth(c.db) {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
	})
}
