package service

import (
	"context"

	"go.uber.org/zap"

	"mailgate/backend/internal/domain"
)

// SettingCache 投递设置的读穿缓存接口，可选。
type SettingCache interface {
	GetSetting(ctx context.Context) (*domain.Setting, bool)
	SetSetting(ctx context.Context, setting *domain.Setting)
	InvalidateSetting(ctx context.Context)
}

// SettingService 投递设置服务。每封入站邮件都会查询一次设置，
// 因此在仓储前放置一层短 TTL 缓存。
type SettingService struct {
	repo  domain.SettingRepository
	cache SettingCache
	log   *zap.Logger
}

// NewSettingService 创建投递设置服务，cache 可为 nil。
func NewSettingService(repo domain.SettingRepository, cache SettingCache, log *zap.Logger) *SettingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingService{repo: repo, cache: cache, log: log}
}

// Query 获取当前投递设置。
func (s *SettingService) Query(ctx context.Context) (*domain.Setting, error) {
	if s.cache != nil {
		if setting, ok := s.cache.GetSetting(ctx); ok {
			return setting, nil
		}
	}
	setting, err := s.repo.GetSetting(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetSetting(ctx, setting)
	}
	return setting, nil
}

// Update 覆盖保存投递设置并使缓存失效。
func (s *SettingService) Update(ctx context.Context, setting *domain.Setting) error {
	if err := s.repo.SaveSetting(ctx, setting); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateSetting(ctx)
	}
	s.log.Info("delivery settings updated",
		zap.Int("receive", setting.Receive),
		zap.Int("no_recipient", setting.NoRecipient),
		zap.Int("rule_type", setting.RuleType),
	)
	return nil
}
