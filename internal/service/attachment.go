package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mailgate/backend/internal/blob"
	"mailgate/backend/internal/domain"
	"mailgate/backend/internal/monitoring"
)

// AttachmentService 附件持久化服务：字节内容写入对象存储，
// 元数据入库。尺寸与类型限制由对象存储后端自行决定，
// 这里不做拦截。
type AttachmentService struct {
	repo    domain.AttachmentRepository
	store   blob.Store
	log     *zap.Logger
	metrics *monitoring.Metrics
}

// NewAttachmentService 创建附件服务，store 与 metrics 可为 nil。
func NewAttachmentService(repo domain.AttachmentRepository, store blob.Store, log *zap.Logger, metrics *monitoring.Metrics) *AttachmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AttachmentService{repo: repo, store: store, log: log, metrics: metrics}
}

// HasBackingStore 判断是否配置了可用的对象存储后端。
func (s *AttachmentService) HasBackingStore(ctx context.Context) bool {
	return s.store != nil
}

// AddAttachments 持久化附件字节与元数据。
// 内容寻址使字节相同的附件写入同一对象，重复写入为幂等；
// 每条记录仍独立入库。
func (s *AttachmentService) AddAttachments(ctx context.Context, atts []*domain.Attachment) error {
	if len(atts) == 0 {
		return nil
	}
	if s.store == nil {
		return fmt.Errorf("no attachment backing store configured")
	}

	for _, att := range atts {
		if err := s.store.Put(ctx, att.Key, att.MimeType, att.Content); err != nil {
			return fmt.Errorf("store attachment object %s: %w", att.Key, err)
		}
		if s.metrics != nil {
			s.metrics.RecordAttachmentBytes(att.Size)
		}
	}

	if err := s.repo.CreateAttachments(ctx, atts); err != nil {
		return fmt.Errorf("save attachment metadata: %w", err)
	}

	s.log.Debug("attachments persisted", zap.Int("count", len(atts)))
	return nil
}

// ListByEmail 列出某邮件的全部附件元数据。
func (s *AttachmentService) ListByEmail(ctx context.Context, emailID int64) ([]domain.Attachment, error) {
	return s.repo.ListAttachmentsByEmail(ctx, emailID)
}
