package service

import (
	"context"
	"strings"

	"mailgate/backend/internal/domain"
)

// RoleService 角色权限服务。
type RoleService struct {
	repo domain.RoleRepository
}

// NewRoleService 创建角色服务。
func NewRoleService(repo domain.RoleRepository) *RoleService {
	return &RoleService{repo: repo}
}

// SelectByUserID 获取用户的角色配置。
func (s *RoleService) SelectByUserID(ctx context.Context, userID int64) (*domain.Role, error) {
	return s.repo.GetRoleByUserID(ctx, userID)
}

// HasAvailDomainPerm 判断收件地址的域名是否在角色的可用域名列表内。
// 列表为逗号分隔，* 表示不限域名；空列表视为无权限。
func (s *RoleService) HasAvailDomainPerm(availDomain, email string) bool {
	emailDomain := ""
	if idx := strings.LastIndex(email, "@"); idx >= 0 && idx < len(email)-1 {
		emailDomain = strings.ToLower(email[idx+1:])
	}
	if emailDomain == "" {
		return false
	}
	for _, part := range strings.Split(availDomain, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		if token == "*" || token == emailDomain {
			return true
		}
	}
	return false
}
