// Package config 从环境变量与 .env 文件加载系统配置。
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: MAILGATE_
// 例如: MAILGATE_SERVER_PORT, MAILGATE_WEBHOOK_SECRET
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig HTTP 服务器监听配置。
type ServerConfig struct {
	Host            string        // 监听地址，默认 "0.0.0.0"
	Port            int           // 监听端口，默认 8080
	ShutdownTimeout time.Duration // 优雅退出等待时间
}

// WebhookConfig 入站回调配置。
type WebhookConfig struct {
	Secret    string  // 共享密钥，为空时不校验
	BodyLimit int64   // 请求体大小上限（字节）
	RateRPS   float64 // 每秒允许的回调数
	RateBurst int     // 突发容量
}

// IngestConfig 接收管线业务配置。
type IngestConfig struct {
	AdminEmail string // 管理员邮箱，其名下账户跳过域名与封禁检查
}

// DatabaseConfig 数据库连接配置（支持 MySQL 和 PostgreSQL）。
type DatabaseConfig struct {
	Type            string // 数据库类型: "mysql" 或 "postgres"，为空使用内存存储
	DSN             string // 数据库连接字符串
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig Redis 设置缓存配置。
type RedisConfig struct {
	Enabled    bool
	Address    string
	Password   string
	DB         int
	SettingTTL time.Duration // 投递设置缓存时长
}

// BlobConfig 附件对象存储配置。
type BlobConfig struct {
	Backend   string // "filesystem"、"s3"（含 R2），为空不落附件字节
	Root      string // filesystem 后端的根目录
	Bucket    string
	Region    string
	Endpoint  string // 自定义端点（R2 / MinIO）
	AccessKey string
	SecretKey string
	PathStyle bool
}

// TelegramConfig Telegram 转发配置。
type TelegramConfig struct {
	Token string // 机器人令牌，为空时不启用转发
}

// CORSConfig 跨域资源共享配置。
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig 日志系统配置。
type LogConfig struct {
	Level       string
	Development bool
	File        string // 日志文件路径，为空仅输出到控制台
}

// Config 系统配置根结构体。
type Config struct {
	Server   ServerConfig
	Webhook  WebhookConfig
	Ingest   IngestConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Blob     BlobConfig
	Telegram TelegramConfig
	CORS     CORSConfig
	Log      LogConfig
}

// Load 加载并校验系统配置。
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetEnvPrefix("mailgate")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("webhook.secret", "")
	viper.SetDefault("webhook.body_limit", 30*1024*1024)
	viper.SetDefault("webhook.rate_rps", 50)
	viper.SetDefault("webhook.rate_burst", 100)
	viper.SetDefault("ingest.admin_email", "")
	viper.SetDefault("database.type", "") // 默认为空，使用内存存储
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.setting_ttl", "30s")
	viper.SetDefault("blob.backend", "")
	viper.SetDefault("blob.root", "data/attachments")
	viper.SetDefault("blob.region", "auto")
	viper.SetDefault("blob.path_style", false)
	viper.SetDefault("telegram.token", "")
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("log.file", "")

	dbType := viper.GetString("database.type")
	switch dbType {
	case "", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("invalid database.type %q (supported: mysql, postgres)", dbType)
	}
	if dbType != "" && viper.GetString("database.dsn") == "" {
		return nil, fmt.Errorf("database.dsn is required when database.type is set")
	}

	blobBackend := viper.GetString("blob.backend")
	switch blobBackend {
	case "", "filesystem", "fs", "local", "s3", "r2":
	default:
		return nil, fmt.Errorf("invalid blob.backend %q (supported: filesystem, s3)", blobBackend)
	}
	if (blobBackend == "s3" || blobBackend == "r2") && viper.GetString("blob.bucket") == "" {
		return nil, fmt.Errorf("blob.bucket is required for the s3 backend")
	}

	shutdownTimeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		shutdownTimeout = 10 * time.Second
	}
	connMaxLifetime, err := time.ParseDuration(viper.GetString("database.conn_max_lifetime"))
	if err != nil {
		connMaxLifetime = 5 * time.Minute
	}
	settingTTL, err := time.ParseDuration(viper.GetString("redis.setting_ttl"))
	if err != nil {
		settingTTL = 30 * time.Second
	}

	bodyLimit := viper.GetInt64("webhook.body_limit")
	if bodyLimit <= 0 {
		bodyLimit = 30 * 1024 * 1024
	}
	rateRPS := viper.GetFloat64("webhook.rate_rps")
	if rateRPS <= 0 {
		rateRPS = 50
	}
	rateBurst := viper.GetInt("webhook.rate_burst")
	if rateBurst <= 0 {
		rateBurst = 100
	}

	corsOrigins := parseList(viper.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            viper.GetString("server.host"),
			Port:            viper.GetInt("server.port"),
			ShutdownTimeout: shutdownTimeout,
		},
		Webhook: WebhookConfig{
			Secret:    viper.GetString("webhook.secret"),
			BodyLimit: bodyLimit,
			RateRPS:   rateRPS,
			RateBurst: rateBurst,
		},
		Ingest: IngestConfig{
			AdminEmail: strings.ToLower(strings.TrimSpace(viper.GetString("ingest.admin_email"))),
		},
		Database: DatabaseConfig{
			Type:            dbType,
			DSN:             viper.GetString("database.dsn"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Enabled:    viper.GetBool("redis.enabled"),
			Address:    viper.GetString("redis.address"),
			Password:   viper.GetString("redis.password"),
			DB:         viper.GetInt("redis.db"),
			SettingTTL: settingTTL,
		},
		Blob: BlobConfig{
			Backend:   blobBackend,
			Root:      viper.GetString("blob.root"),
			Bucket:    viper.GetString("blob.bucket"),
			Region:    viper.GetString("blob.region"),
			Endpoint:  viper.GetString("blob.endpoint"),
			AccessKey: viper.GetString("blob.access_key"),
			SecretKey: viper.GetString("blob.secret_key"),
			PathStyle: viper.GetBool("blob.path_style"),
		},
		Telegram: TelegramConfig{
			Token: viper.GetString("telegram.token"),
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
			File:        viper.GetString("log.file"),
		},
	}

	return cfg, nil
}

// parseList 将逗号分隔的字符串解析为字符串切片，去除空白项。
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件，文件不存在时静默跳过，
// 已存在的环境变量不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}
	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
