package service

import (
	"context"

	"mailgate/backend/internal/domain"
)

// UserService 用户服务。
type UserService struct {
	repo domain.UserRepository
}

// NewUserService 创建用户服务。
func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// SelectByID 按 ID 获取用户。
func (s *UserService) SelectByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}
