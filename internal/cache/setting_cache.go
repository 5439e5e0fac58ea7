// Package cache 提供进程内的投递设置缓存，
// 未启用 Redis 时作为读穿缓存使用。
package cache

import (
	"context"
	"sync"
	"time"

	"mailgate/backend/internal/domain"
)

// LocalSettingCache 带 TTL 的进程内设置缓存。
// 设置为单行记录，缓存只保存一个条目。
type LocalSettingCache struct {
	mu        sync.RWMutex
	setting   *domain.Setting
	expiresAt time.Time
	ttl       time.Duration
}

// NewLocalSettingCache 创建进程内设置缓存。
func NewLocalSettingCache(ttl time.Duration) *LocalSettingCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LocalSettingCache{ttl: ttl}
}

// GetSetting 读取缓存的设置，过期或缺失返回 false。
func (c *LocalSettingCache) GetSetting(_ context.Context) (*domain.Setting, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.setting == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	clone := *c.setting
	return &clone, true
}

// SetSetting 写入设置缓存。
func (c *LocalSettingCache) SetSetting(_ context.Context, setting *domain.Setting) {
	if setting == nil {
		return
	}
	clone := *setting
	c.mu.Lock()
	c.setting = &clone
	c.expiresAt = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

// InvalidateSetting 使设置缓存失效。
func (c *LocalSettingCache) InvalidateSetting(_ context.Context) {
	c.mu.Lock()
	c.setting = nil
	c.mu.Unlock()
}
