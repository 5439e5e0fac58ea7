// Package sql 提供基于 GORM 的数据库存储实现，
// 支持 PostgreSQL 与 MySQL。
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mailgate/backend/internal/domain"
)

// Store SQL 数据库存储实现。
type Store struct {
	db         *sql.DB
	gormDB     *gorm.DB
	driverName string // "mysql" or "postgres"
}

// NewStore 创建 SQL 存储并执行自动迁移。
func NewStore(driverName, dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration) (*Store, error) {
	if driverName != "mysql" && driverName != "postgres" {
		return nil, fmt.Errorf("unsupported database driver: %s (supported: mysql, postgres)", driverName)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var gormDB *gorm.DB
	if driverName == "mysql" {
		gormDB, err = gorm.Open(mysql.New(mysql.Config{Conn: db}), gormConfig)
	} else {
		gormDB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), gormConfig)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize GORM: %w", err)
	}

	store := &Store{db: db, gormDB: gormDB, driverName: driverName}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// migrate 执行数据库迁移。
func (s *Store) migrate() error {
	return s.gormDB.AutoMigrate(
		&domain.Setting{},
		&domain.Account{},
		&domain.User{},
		&domain.Role{},
		&domain.Email{},
		&domain.Attachment{},
	)
}

// Close 关闭数据库连接。
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Health 检查数据库健康状态。
func (s *Store) Health() error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Ping()
}

// ========== Setting Repository ==========

// GetSetting 获取全局投递设置，单行记录，缺失时返回默认值。
func (s *Store) GetSetting(ctx context.Context) (*domain.Setting, error) {
	var setting domain.Setting
	err := s.gormDB.WithContext(ctx).First(&setting, "setting_id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DefaultSetting(), nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SaveSetting 覆盖保存全局投递设置。
func (s *Store) SaveSetting(ctx context.Context, setting *domain.Setting) error {
	setting.SettingID = 1
	setting.UpdatedAt = time.Now().UTC()
	return s.gormDB.WithContext(ctx).Save(setting).Error
}

// ========== Account Repository ==========

// GetAccountByEmailIncludeDel 按小写邮箱查找账户，不过滤软删除标记。
func (s *Store) GetAccountByEmailIncludeDel(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	err := s.gormDB.WithContext(ctx).First(&account, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SaveAccount 保存账户。
func (s *Store) SaveAccount(ctx context.Context, account *domain.Account) error {
	account.Email = strings.ToLower(account.Email)
	return s.gormDB.WithContext(ctx).Save(account).Error
}

// ========== User Repository ==========

// GetUserByID 按 ID 获取用户。
func (s *Store) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	var user domain.User
	err := s.gormDB.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveUser 保存用户。
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	return s.gormDB.WithContext(ctx).Save(user).Error
}

// ========== Role Repository ==========

// GetRoleByUserID 获取用户的角色配置。
func (s *Store) GetRoleByUserID(ctx context.Context, userID int64) (*domain.Role, error) {
	var role domain.Role
	err := s.gormDB.WithContext(ctx).First(&role, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// SaveRole 保存角色配置。
func (s *Store) SaveRole(ctx context.Context, role *domain.Role) error {
	return s.gormDB.WithContext(ctx).Save(role).Error
}

// ========== Email Repository ==========

// CreateEmail 插入邮件记录，GORM 回填自增 EmailID。
func (s *Store) CreateEmail(ctx context.Context, email *domain.Email) error {
	return s.gormDB.WithContext(ctx).Create(email).Error
}

// UpdateEmailStatus 更新接收状态与软删除标记，返回更新后的记录。
func (s *Store) UpdateEmailStatus(ctx context.Context, emailID int64, status int, isDel int) (*domain.Email, error) {
	err := s.gormDB.WithContext(ctx).
		Model(&domain.Email{}).
		Where("email_id = ?", emailID).
		Updates(map[string]interface{}{"status": status, "is_del": isDel}).Error
	if err != nil {
		return nil, err
	}
	return s.GetEmail(ctx, emailID)
}

// GetEmail 按 ID 获取邮件。
func (s *Store) GetEmail(ctx context.Context, emailID int64) (*domain.Email, error) {
	var email domain.Email
	err := s.gormDB.WithContext(ctx).First(&email, "email_id = ?", emailID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEmailNotFound
	}
	if err != nil {
		return nil, err
	}
	return &email, nil
}

// ListEmailsByAccount 列出某账户名下可见的邮件，按时间倒序。
func (s *Store) ListEmailsByAccount(ctx context.Context, accountID int64) ([]domain.Email, error) {
	var emails []domain.Email
	err := s.gormDB.WithContext(ctx).
		Where("account_id = ? AND is_del = ?", accountID, domain.IsDelNormal).
		Order("created_at DESC").
		Find(&emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// ========== Attachment Repository ==========

// CreateAttachments 批量插入附件元数据。
func (s *Store) CreateAttachments(ctx context.Context, atts []*domain.Attachment) error {
	if len(atts) == 0 {
		return nil
	}
	return s.gormDB.WithContext(ctx).Create(atts).Error
}

// ListAttachmentsByEmail 列出某邮件的全部附件元数据。
func (s *Store) ListAttachmentsByEmail(ctx context.Context, emailID int64) ([]domain.Attachment, error) {
	var atts []domain.Attachment
	err := s.gormDB.WithContext(ctx).
		Where("email_id = ?", emailID).
		Find(&atts).Error
	if err != nil {
		return nil, err
	}
	return atts, nil
}
