package domain

import "context"

// 附件类型。内嵌附件（cid 引用）同时也作为普通附件可下载。
const (
	AttTypeAttachment = 0 // 常规附件
	AttTypeEmbedded   = 1 // 内嵌（cid 引用）
)

// AttachmentKeyPrefix 内容寻址存储键的固定前缀。
const AttachmentKeyPrefix = "att/"

// DefaultAttachmentName 附件缺少文件名时的默认名。
const DefaultAttachmentName = "attachment"

// DefaultContentType 附件缺少 MIME 类型时的默认值。
const DefaultContentType = "application/octet-stream"

// Attachment 表示一条已归一化的附件记录。
// Key 由内容摘要派生，字节相同的附件映射到同一个存储对象，
// 但每个载荷条目仍各自产生一条独立记录，不做合并。
type Attachment struct {
	AttID     int64  `json:"attId" gorm:"primaryKey;autoIncrement;column:att_id"`
	Key       string `json:"key" gorm:"type:varchar(255);index;not null"` // 前缀 + 内容摘要 + 扩展名
	Filename  string `json:"filename" gorm:"type:varchar(255)"`
	MimeType  string `json:"mimeType" gorm:"type:varchar(100)"`
	Size      int64  `json:"size"`
	Type      int    `json:"type" gorm:"default:0"`
	ContentID string `json:"contentId,omitempty" gorm:"type:varchar(255)"` // 仅内嵌附件，尖括号已剥除
	EmailID   int64  `json:"emailId" gorm:"index"`
	UserID    int64  `json:"userId" gorm:"index"`
	AccountID int64  `json:"accountId" gorm:"index"`
	Content   []byte `json:"-" gorm:"-"` // 字节内容走对象存储，不入库
}

// AttachmentRepository 附件元数据仓储接口。
type AttachmentRepository interface {
	// CreateAttachments 批量插入附件元数据。
	CreateAttachments(ctx context.Context, atts []*Attachment) error

	// ListAttachmentsByEmail 列出某邮件的全部附件。
	ListAttachmentsByEmail(ctx context.Context, emailID int64) ([]Attachment, error)
}
