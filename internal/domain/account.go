package domain

import (
	"context"
	"time"
)

// Account 表示一个收件邮箱地址，归属于某个用户。
type Account struct {
	AccountID int64     `json:"accountId" gorm:"primaryKey;autoIncrement;column:account_id"`
	UserID    int64     `json:"userId" gorm:"index;not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"` // 小写存储
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	IsDel     int       `json:"isDel" gorm:"default:0;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountRepository 账户仓储接口。
type AccountRepository interface {
	// GetAccountByEmailIncludeDel 按小写邮箱查找账户，包含已软删除的账户。
	// 未命中返回 ErrAccountNotFound。
	GetAccountByEmailIncludeDel(ctx context.Context, email string) (*Account, error)

	// SaveAccount 保存账户（测试与初始化使用）。
	SaveAccount(ctx context.Context, account *Account) error
}
