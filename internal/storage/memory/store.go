// Package memory 提供内存存储实现，用于开发验证与测试。
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"mailgate/backend/internal/domain"
)

// Store 内存存储。身份由内部自增计数器分配，
// 与 SQL 实现的自增主键行为保持一致。
type Store struct {
	mu sync.RWMutex

	setting *domain.Setting

	accounts      map[int64]*domain.Account
	accountViews  map[string]int64 // 小写邮箱 -> accountID（含已软删除）
	users         map[int64]*domain.User
	roles         map[int64]*domain.Role // userID -> role
	emails        map[int64]*domain.Email
	attachments   map[int64][]*domain.Attachment // emailID -> attachments
	nextAccountID int64
	nextUserID    int64
	nextRoleID    int64
	nextEmailID   int64
	nextAttID     int64
}

// NewStore 创建内存存储实例。
func NewStore() *Store {
	return &Store{
		setting:      domain.DefaultSetting(),
		accounts:     make(map[int64]*domain.Account),
		accountViews: make(map[string]int64),
		users:        make(map[int64]*domain.User),
		roles:        make(map[int64]*domain.Role),
		emails:       make(map[int64]*domain.Email),
		attachments:  make(map[int64][]*domain.Attachment),
	}
}

// ========== Setting Repository ==========

// GetSetting 获取全局投递设置。
func (s *Store) GetSetting(_ context.Context) (*domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	setting := *s.setting
	return &setting, nil
}

// SaveSetting 覆盖保存全局投递设置。
func (s *Store) SaveSetting(_ context.Context, setting *domain.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *setting
	clone.UpdatedAt = time.Now().UTC()
	s.setting = &clone
	return nil
}

// ========== Account Repository ==========

// GetAccountByEmailIncludeDel 按小写邮箱查找账户，包含已软删除的。
func (s *Store) GetAccountByEmailIncludeDel(_ context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountViews[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	account := *s.accounts[id]
	return &account, nil
}

// SaveAccount 保存账户并分配 ID。
func (s *Store) SaveAccount(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.AccountID == 0 {
		s.nextAccountID++
		account.AccountID = s.nextAccountID
	}
	account.Email = strings.ToLower(account.Email)
	clone := *account
	s.accounts[account.AccountID] = &clone
	s.accountViews[account.Email] = account.AccountID
	return nil
}

// ========== User Repository ==========

// GetUserByID 按 ID 获取用户。
func (s *Store) GetUserByID(_ context.Context, userID int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// SaveUser 保存用户并分配 ID。
func (s *Store) SaveUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.UserID == 0 {
		s.nextUserID++
		user.UserID = s.nextUserID
	}
	clone := *user
	s.users[user.UserID] = &clone
	return nil
}

// ========== Role Repository ==========

// GetRoleByUserID 获取用户的角色配置。
func (s *Store) GetRoleByUserID(_ context.Context, userID int64) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[userID]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

// SaveRole 保存角色配置并分配 ID。
func (s *Store) SaveRole(_ context.Context, role *domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role.RoleID == 0 {
		s.nextRoleID++
		role.RoleID = s.nextRoleID
	}
	clone := *role
	s.roles[role.UserID] = &clone
	return nil
}

// ========== Email Repository ==========

// CreateEmail 插入邮件记录并回填自增 EmailID。
func (s *Store) CreateEmail(_ context.Context, email *domain.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEmailID++
	email.EmailID = s.nextEmailID
	clone := *email
	s.emails[email.EmailID] = &clone
	return nil
}

// UpdateEmailStatus 更新接收状态与软删除标记。
func (s *Store) UpdateEmailStatus(_ context.Context, emailID int64, status int, isDel int) (*domain.Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.emails[emailID]
	if !ok {
		return nil, domain.ErrEmailNotFound
	}
	email.Status = status
	email.IsDel = isDel
	clone := *email
	return &clone, nil
}

// GetEmail 按 ID 获取邮件。
func (s *Store) GetEmail(_ context.Context, emailID int64) (*domain.Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email, ok := s.emails[emailID]
	if !ok {
		return nil, domain.ErrEmailNotFound
	}
	clone := *email
	return &clone, nil
}

// ListEmailsByAccount 列出某账户名下可见（未软删除）的邮件。
func (s *Store) ListEmailsByAccount(_ context.Context, accountID int64) ([]domain.Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Email
	for _, email := range s.emails {
		if email.AccountID == accountID && email.IsDel == domain.IsDelNormal {
			out = append(out, *email)
		}
	}
	return out, nil
}

// ========== Attachment Repository ==========

// CreateAttachments 批量插入附件元数据。
func (s *Store) CreateAttachments(_ context.Context, atts []*domain.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, att := range atts {
		s.nextAttID++
		att.AttID = s.nextAttID
		clone := *att
		s.attachments[att.EmailID] = append(s.attachments[att.EmailID], &clone)
	}
	return nil
}

// ListAttachmentsByEmail 列出某邮件的全部附件元数据。
func (s *Store) ListAttachmentsByEmail(_ context.Context, emailID int64) ([]domain.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Attachment
	for _, att := range s.attachments[emailID] {
		out = append(out, *att)
	}
	return out, nil
}

// Close 内存存储无需释放资源。
func (s *Store) Close() error { return nil }

// Health 内存存储始终健康。
func (s *Store) Health() error { return nil }
