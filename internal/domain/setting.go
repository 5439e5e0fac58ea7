package domain

import (
	"context"
	"time"
)

// 全局开关取值。
const (
	SwitchOpen  = 0
	SwitchClose = 1
)

// 转发路由规则类型。RuleTypeRule 时仅 RuleEmail 白名单内的收件地址触发通知。
const (
	RuleTypeAll  = 0
	RuleTypeRule = 1
)

// Setting 表示全局投递设置，单行记录。
type Setting struct {
	SettingID   int64     `json:"settingId" gorm:"primaryKey;column:setting_id"`
	Receive     int       `json:"receive" gorm:"default:0"`     // 接收总开关
	NoRecipient int       `json:"noRecipient" gorm:"default:0"` // 无收件账户时是否仍接收
	R2Domain    string    `json:"r2Domain" gorm:"type:varchar(255)"` // 附件公开访问域名
	RuleType    int       `json:"ruleType" gorm:"default:0"`
	RuleEmail   string    `json:"ruleEmail" gorm:"type:text"` // 逗号分隔的收件地址白名单
	TgBotStatus int       `json:"tgBotStatus" gorm:"default:1"`
	TgChatID    string    `json:"tgChatId" gorm:"type:varchar(64)"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DefaultSetting 返回默认投递设置：开放接收、允许无主邮件、不转发。
func DefaultSetting() *Setting {
	return &Setting{
		SettingID:   1,
		Receive:     SwitchOpen,
		NoRecipient: SwitchOpen,
		RuleType:    RuleTypeAll,
		TgBotStatus: SwitchClose,
		UpdatedAt:   time.Now().UTC(),
	}
}

// SettingRepository 投递设置仓储接口。
type SettingRepository interface {
	// GetSetting 获取全局设置，不存在时返回默认值。
	GetSetting(ctx context.Context) (*Setting, error)

	// SaveSetting 覆盖保存全局设置。
	SaveSetting(ctx context.Context, setting *Setting) error
}
