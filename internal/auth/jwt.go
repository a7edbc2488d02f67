package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/workflow"
)

// Claims 访问令牌声明
// 令牌是无状态的签名令牌,服务端不保存会话集合,
// 多实例部署和进程重启都不影响已签发令牌的有效性
type Claims struct {
	UserID        uint   `json:"user_id"`
	ServiceNumber string `json:"service_number"`
	Name          string `json:"name"`
	Rank          string `json:"rank"`
	Role          string `json:"role"`
	Unit          string `json:"unit"`
	jwt.RegisteredClaims
}

// Actor 经过认证的操作者
// 核心层完全信任该输入,不再做凭证校验
type Actor struct {
	ID   uint
	Role workflow.Role
	Unit string
}

// TokenManager 令牌签发与验证器
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager 创建令牌管理器
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// IssueToken 为用户签发访问令牌
func (m *TokenManager) IssueToken(user *model.UserModel) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:        user.ID,
		ServiceNumber: user.ServiceNumber,
		Name:          user.Name,
		Rank:          user.Rank,
		Role:          user.Role,
		Unit:          user.Unit,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken 验证访问令牌
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !workflow.IsValidRole(workflow.Role(claims.Role)) {
		return nil, errors.New("invalid role in token")
	}
	return claims, nil
}

// AuthMiddleware JWT 认证中间件
// 将认证通过的操作者信息写入请求上下文
func AuthMiddleware(m *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "missing authorization header",
			})
			c.Abort()
			return
		}

		// 移除 "Bearer " 前缀
		if strings.HasPrefix(token, "Bearer ") {
			token = strings.TrimPrefix(token, "Bearer ")
		}

		claims, err := m.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "invalid token",
				"detail":  err.Error(),
			})
			c.Abort()
			return
		}

		// 将用户信息存储到上下文
		c.Set("user_id", claims.UserID)
		c.Set("service_number", claims.ServiceNumber)
		c.Set("name", claims.Name)
		c.Set("role", claims.Role)
		c.Set("unit", claims.Unit)

		c.Next()
	}
}

// ActorFromContext 从请求上下文取出操作者
func ActorFromContext(c *gin.Context) (*Actor, bool) {
	id, ok := c.Get("user_id")
	if !ok {
		return nil, false
	}
	role := c.GetString("role")
	if role == "" {
		return nil, false
	}
	userID, ok := id.(uint)
	if !ok {
		return nil, false
	}
	return &Actor{
		ID:   userID,
		Role: workflow.Role(role),
		Unit: c.GetString("unit"),
	}, true
}
