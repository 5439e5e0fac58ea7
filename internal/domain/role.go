package domain

import (
	"context"
	"time"
)

// 封禁策略类型。匹配的规则按类型决定处理方式：
// ALL 直接拒收，CONTENT 清空正文与附件后放行，其余类型放行且不做处理。
const (
	BanTypeAll     = 0
	BanTypeContent = 1
	BanTypeNone    = 2
)

// Role 表示用户的权限配置：可用域名列表与发件人封禁规则。
type Role struct {
	RoleID       int64     `json:"roleId" gorm:"primaryKey;autoIncrement;column:role_id"`
	UserID       int64     `json:"userId" gorm:"uniqueIndex;not null"`
	AvailDomain  string    `json:"availDomain" gorm:"type:text"` // 逗号分隔，* 表示全部
	BanEmail     string    `json:"banEmail" gorm:"type:text"`    // 逗号分隔：* / 域名 / 完整地址
	BanEmailType int       `json:"banEmailType" gorm:"default:2"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RoleRepository 角色仓储接口。
type RoleRepository interface {
	// GetRoleByUserID 获取用户的角色配置，未命中返回 ErrRoleNotFound。
	GetRoleByUserID(ctx context.Context, userID int64) (*Role, error)

	// SaveRole 保存角色配置（测试与初始化使用）。
	SaveRole(ctx context.Context, role *Role) error
}
