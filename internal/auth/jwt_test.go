package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *model.UserModel {
	return &model.UserModel{
		ID:            42,
		ServiceNumber: "SN-042",
		Name:          "Test Soldier",
		Rank:          "Pte",
		Role:          string(workflow.RoleSoldier),
		Unit:          "A Coy",
	}
}

// TestTokenManager_IssueAndValidate 测试令牌签发与验证
func TestTokenManager_IssueAndValidate(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.IssueToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "SN-042", claims.ServiceNumber)
	assert.Equal(t, string(workflow.RoleSoldier), claims.Role)
	assert.Equal(t, "A Coy", claims.Unit)
}

// TestTokenManager_Expired 测试过期令牌
func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.IssueToken(testUser())
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

// TestTokenManager_WrongSecret 测试密钥不匹配
func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.IssueToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

// TestTokenManager_InvalidRole 测试令牌中的非法角色
func TestTokenManager_InvalidRole(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	user := testUser()
	user.Role = "general"
	token, err := m.IssueToken(user)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

// TestAuthMiddleware 测试认证中间件
func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewTokenManager("test-secret", time.Hour)

	router := gin.New()
	router.GET("/protected", AuthMiddleware(m), func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.ID, "role": string(actor.Role), "unit": actor.Unit})
	})

	// 无令牌
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 非法令牌
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 合法令牌
	token, err := m.IssueToken(testUser())
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}
