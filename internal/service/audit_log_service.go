package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/repository"
)

// AuditLogService 审计日志服务
// 每次被接受的状态变更都必须恰好记录一次;
// 审计写入发生在业务状态提交之后,失败不回滚业务状态,
// 但调用方必须把失败暴露给运维(日志 + 指标)
type AuditLogService interface {
	RecordAction(ctx context.Context, userID uint, action string, tableName string, recordID uint) error
}

// auditLogService 审计日志服务实现
type auditLogService struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditLogService 创建审计日志服务
func NewAuditLogService(auditRepo repository.AuditLogRepository) AuditLogService {
	return &auditLogService{
		auditRepo: auditRepo,
	}
}

// RecordAction 记录操作审计日志
func (s *auditLogService) RecordAction(
	ctx context.Context,
	userID uint,
	action string,
	tableName string,
	recordID uint,
) error {
	// 获取请求信息
	requestID := ""
	if req := ctx.Value(ContextKeyRequestID); req != nil {
		if v, ok := req.(string); ok {
			requestID = v
		}
	}

	ip := ""
	if req := ctx.Value(ContextKeyClientIP); req != nil {
		if v, ok := req.(string); ok {
			ip = v
		}
	}

	auditLog := &model.AuditLogModel{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  tableName,
		RecordID:  recordID,
		RequestID: requestID,
		IP:        ip,
		CreatedAt: time.Now(),
	}

	return s.auditRepo.Save(auditLog)
}

// contextKey 上下文键类型
type contextKey string

const (
	// ContextKeyRequestID 请求 ID 上下文键
	ContextKeyRequestID contextKey = "request_id"
	// ContextKeyClientIP 客户端 IP 上下文键
	ContextKeyClientIP contextKey = "ip"
)
