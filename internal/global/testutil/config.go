package testutil

import (
	"club-management-system/config"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const JWTSecret = "test-secret"

// UseConfig 使用默认值构造一份测试配置并设为全局配置
func UseConfig(t *testing.T) *config.Config {
	t.Helper()
	c, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	c.JWT.AccessSecret = JWTSecret
	c.Redis.Host = ""
	c.Sentry.Dsn = ""
	c.Storage.Home = t.TempDir()
	config.Set(c)
	return c
}
