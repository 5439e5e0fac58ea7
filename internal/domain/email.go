package domain

import (
	"context"
	"time"
)

// 邮件接收状态。SAVING 表示第一阶段写入已完成、处理尚未结束；
// 第二阶段根据收件账户是否存在落到 RECEIVED 或 UNASSIGNED。
const (
	EmailStatusReceived   = 0 // 接收完成，归属已解析的账户
	EmailStatusSaving     = 1 // 两阶段写入的中间态
	EmailStatusUnassigned = 2 // 无对应账户（无主邮件）
)

// 软删除标记。邮件在第一阶段创建时即标记为删除，
// 第二阶段确认完成后清除，保证未处理完的记录对用户不可见。
const (
	IsDelNormal = 0
	IsDelDelete = 1
)

// NoSubjectPlaceholder 邮件缺少主题时的占位值。
const NoSubjectPlaceholder = "(no subject)"

// Email 表示一封已归一化的入站邮件记录。
type Email struct {
	EmailID    int64     `json:"emailId" gorm:"primaryKey;autoIncrement;column:email_id"`
	ToEmail    string    `json:"toEmail" gorm:"type:varchar(255);index;not null"`
	ToName     string    `json:"toName" gorm:"type:varchar(255)"`
	SendEmail  string    `json:"sendEmail" gorm:"type:varchar(255);index"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	Subject    string    `json:"subject" gorm:"type:varchar(500)"`
	Content    string    `json:"content" gorm:"type:text"` // HTML 正文（内联引用已重写）
	Text       string    `json:"text" gorm:"type:text"`
	CC         string    `json:"cc" gorm:"type:text"`        // JSON 数组
	BCC        string    `json:"bcc" gorm:"type:text"`       // JSON 数组
	Recipient  string    `json:"recipient" gorm:"type:text"` // JSON 数组，仅含一个已解析收件人
	InReplyTo  string    `json:"inReplyTo" gorm:"type:varchar(500)"`
	Relation   string    `json:"relation" gorm:"type:text"` // References 链，空格连接
	MessageID  string    `json:"messageId" gorm:"type:varchar(500)"`
	UserID     int64     `json:"userId" gorm:"index;default:0"`    // 无主邮件为 0
	AccountID  int64     `json:"accountId" gorm:"index;default:0"` // 无主邮件为 0
	IsDel      int       `json:"isDel" gorm:"default:0;index"`
	Status     int       `json:"status" gorm:"default:0;index"`
	CreatedAt  time.Time `json:"createdAt"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// EmailRepository 邮件仓储接口。
type EmailRepository interface {
	// CreateEmail 插入邮件记录并回填自增 EmailID。
	CreateEmail(ctx context.Context, email *Email) error

	// UpdateEmailStatus 更新接收状态与软删除标记，返回更新后的记录。
	UpdateEmailStatus(ctx context.Context, emailID int64, status int, isDel int) (*Email, error)

	// GetEmail 按 ID 获取邮件。
	GetEmail(ctx context.Context, emailID int64) (*Email, error)

	// ListEmailsByAccount 列出某账户名下已完成接收的邮件。
	ListEmailsByAccount(ctx context.Context, accountID int64) ([]Email, error)
}
