package domain

import (
	"context"
	"time"
)

// User 表示系统用户，一个用户可拥有多个收件账户。
type User struct {
	UserID    int64     `json:"userId" gorm:"primaryKey;autoIncrement;column:user_id"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	IsDel     int       `json:"isDel" gorm:"default:0"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRepository 用户仓储接口。
type UserRepository interface {
	// GetUserByID 按 ID 获取用户，未命中返回 ErrUserNotFound。
	GetUserByID(ctx context.Context, userID int64) (*User, error)

	// SaveUser 保存用户（测试与初始化使用）。
	SaveUser(ctx context.Context, user *User) error
}
