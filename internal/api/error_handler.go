package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradeops/leave-gin/internal/service"
	"github.com/paradeops/leave-gin/internal/workflow"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// ServiceError 把服务层错误映射为 HTTP 响应
// 校验/授权错误在任何变更发生之前返回;
// 持久化错误对外只暴露通用消息,详情进运维日志
func ServiceError(c *gin.Context, err error) {
	switch {
	case service.IsValidationError(err):
		Error(c, http.StatusBadRequest, "validation failed", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, "invalid credentials", "")
	case errors.Is(err, workflow.ErrForbidden):
		Error(c, http.StatusForbidden, "access denied", err.Error())
	case errors.Is(err, workflow.ErrNotFound):
		Error(c, http.StatusNotFound, "resource not found", err.Error())
	case errors.Is(err, workflow.ErrInvalidState):
		Error(c, http.StatusConflict, "invalid state", err.Error())
	default:
		// 不向客户端泄露持久化层细节
		GetLogger().WithError(err).Error("internal server error")
		Error(c, http.StatusInternalServerError, "internal server error", "")
	}
}
