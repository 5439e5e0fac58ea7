package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mailgate/backend/internal/domain"
)

// EmailService 邮件持久化服务，实现两阶段写入：
// Receive 以 SAVING 状态创建记录（软删除标记置位，对用户不可见），
// CompleteReceive 落定最终状态并清除标记，记录自此可见。
type EmailService struct {
	repo domain.EmailRepository
	log  *zap.Logger
}

// NewEmailService 创建邮件服务。
func NewEmailService(repo domain.EmailRepository, log *zap.Logger) *EmailService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmailService{repo: repo, log: log}
}

// Receive 第一阶段写入：创建邮件记录并回填分配的身份。
// embedded 与 publicDomain 描述记录中依赖对象存储的部分，
// 内联引用已由调用方重写完毕，这里仅作记录。
func (s *EmailService) Receive(ctx context.Context, email *domain.Email, embedded []*domain.Attachment, publicDomain string) (*domain.Email, error) {
	email.Status = domain.EmailStatusSaving
	email.IsDel = domain.IsDelDelete
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now().UTC()
	}
	if email.ReceivedAt.IsZero() {
		email.ReceivedAt = email.CreatedAt
	}

	if err := s.repo.CreateEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("create email record: %w", err)
	}

	s.log.Debug("email record created",
		zap.Int64("email_id", email.EmailID),
		zap.String("to", email.ToEmail),
		zap.Int("embedded_files", len(embedded)),
		zap.String("public_domain", publicDomain),
	)
	return email, nil
}

// CompleteReceive 第二阶段写入：落定最终状态并清除软删除标记。
func (s *EmailService) CompleteReceive(ctx context.Context, status int, emailID int64) (*domain.Email, error) {
	email, err := s.repo.UpdateEmailStatus(ctx, emailID, status, domain.IsDelNormal)
	if err != nil {
		return nil, fmt.Errorf("finalize email record: %w", err)
	}
	return email, nil
}

// Get 按 ID 获取邮件记录。
func (s *EmailService) Get(ctx context.Context, emailID int64) (*domain.Email, error) {
	return s.repo.GetEmail(ctx, emailID)
}

// ListByAccount 列出某账户名下已完成接收的邮件。
func (s *EmailService) ListByAccount(ctx context.Context, accountID int64) ([]domain.Email, error) {
	return s.repo.ListEmailsByAccount(ctx, accountID)
}
