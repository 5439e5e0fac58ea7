package domain

import "errors"

// 仓储层共享错误。
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrRoleNotFound    = errors.New("role not found")
	ErrEmailNotFound   = errors.New("email not found")
)

// Store 聚合所有仓储接口，由内存实现与 SQL 实现分别满足。
type Store interface {
	SettingRepository
	AccountRepository
	UserRepository
	RoleRepository
	EmailRepository
	AttachmentRepository

	// Close 释放底层连接。
	Close() error

	// Health 检查存储健康状态。
	Health() error
}
