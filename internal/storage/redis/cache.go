// Package redis 提供投递设置的 Redis 读穿缓存。
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mailgate/backend/internal/domain"
)

const settingKey = "mailgate:setting"

// SettingCache 投递设置的 Redis 缓存。每封入站邮件都会读取设置，
// 缓存命中可省去一次数据库往返。
type SettingCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewSettingCache 创建 Redis 设置缓存并验证连接。
func NewSettingCache(addr, password string, db int, ttl time.Duration, log *zap.Logger) (*SettingCache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("connected to Redis", zap.String("address", addr), zap.Int("db", db))
	return &SettingCache{rdb: rdb, ttl: ttl, log: log}, nil
}

// GetSetting 读取缓存的投递设置，未命中或出错返回 false。
func (c *SettingCache) GetSetting(ctx context.Context) (*domain.Setting, bool) {
	data, err := c.rdb.Get(ctx, settingKey).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("failed to read setting from Redis", zap.Error(err))
		}
		return nil, false
	}
	var setting domain.Setting
	if err := json.Unmarshal([]byte(data), &setting); err != nil {
		c.log.Warn("failed to decode cached setting", zap.Error(err))
		return nil, false
	}
	return &setting, true
}

// SetSetting 写入投递设置缓存，失败仅记录日志。
func (c *SettingCache) SetSetting(ctx context.Context, setting *domain.Setting) {
	data, err := json.Marshal(setting)
	if err != nil {
		c.log.Warn("failed to encode setting for cache", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, settingKey, data, c.ttl).Err(); err != nil {
		c.log.Warn("failed to cache setting", zap.Error(err))
	}
}

// InvalidateSetting 使投递设置缓存失效。
func (c *SettingCache) InvalidateSetting(ctx context.Context) {
	if err := c.rdb.Del(ctx, settingKey).Err(); err != nil {
		c.log.Warn("failed to invalidate setting cache", zap.Error(err))
	}
}

// Close 关闭 Redis 连接。
func (c *SettingCache) Close() error {
	return c.rdb.Close()
}
