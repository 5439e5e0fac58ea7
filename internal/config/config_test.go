package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("默认配置可加载", func(t *testing.T) {
		viper.Reset()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Empty(t, cfg.Database.Type)
		assert.Empty(t, cfg.Webhook.Secret)
		assert.Equal(t, int64(30*1024*1024), cfg.Webhook.BodyLimit)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("环境变量覆盖默认值", func(t *testing.T) {
		viper.Reset()
		t.Setenv("MAILGATE_SERVER_PORT", "9090")
		t.Setenv("MAILGATE_WEBHOOK_SECRET", "s3cret")
		t.Setenv("MAILGATE_INGEST_ADMIN_EMAIL", " Admin@Example.com ")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "s3cret", cfg.Webhook.Secret)
		assert.Equal(t, "admin@example.com", cfg.Ingest.AdminEmail)
	})

	t.Run("非法数据库类型报错", func(t *testing.T) {
		viper.Reset()
		t.Setenv("MAILGATE_DATABASE_TYPE", "oracle")
		t.Setenv("MAILGATE_DATABASE_DSN", "dsn")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("配置数据库类型但缺少 DSN 报错", func(t *testing.T) {
		viper.Reset()
		t.Setenv("MAILGATE_DATABASE_TYPE", "postgres")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("s3 后端缺少 bucket 报错", func(t *testing.T) {
		viper.Reset()
		t.Setenv("MAILGATE_BLOB_BACKEND", "s3")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("逗号分隔的跨域来源被拆分", func(t *testing.T) {
		viper.Reset()
		t.Setenv("MAILGATE_CORS_ALLOWED_ORIGINS", "https://a.com, https://b.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.CORS.AllowedOrigins)
	})
}
