package service

import (
	"context"
	"strings"

	"mailgate/backend/internal/domain"
)

// AccountService 收件账户服务。
type AccountService struct {
	repo domain.AccountRepository
}

// NewAccountService 创建账户服务。
func NewAccountService(repo domain.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// SelectByEmailIncludeDel 按小写邮箱查找账户，包含已软删除的账户，
// 使先前删除的邮箱也走确定的"找到/未找到"分支而非查询缺失。
// 未命中时返回 (nil, domain.ErrAccountNotFound)。
func (s *AccountService) SelectByEmailIncludeDel(ctx context.Context, email string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.repo.GetAccountByEmailIncludeDel(ctx, email)
}
