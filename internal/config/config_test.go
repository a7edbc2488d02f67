package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault 测试默认配置
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, float64(100), cfg.Server.RateLimitRPS)
	assert.Equal(t, 200, cfg.Server.RateLimitBurst)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.False(t, cfg.Workflow.EnforceBalance)
	assert.False(t, cfg.Workflow.RejectOnlyPending)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "*")
	assert.False(t, IsProduction(cfg))
}

// TestLoad_EnvOverride 测试环境变量覆盖
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_SERVER_RATE_LIMIT_RPS", "5")
	t.Setenv("APP_WORKFLOW_ENFORCE_BALANCE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, float64(5), cfg.Server.RateLimitRPS)
	assert.True(t, cfg.Workflow.EnforceBalance)
}

// TestLoad_ProductionRequiresSecret 测试生产环境密钥检查
func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("APP_AUTH_JWT_SECRET", "a-real-secret")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, IsProduction(cfg))
	assert.Equal(t, "a-real-secret", cfg.Auth.JWTSecret)
}
