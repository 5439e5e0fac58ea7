package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailgate/backend/internal/domain"
)

func TestSettingRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	t.Run("初始返回默认设置", func(t *testing.T) {
		setting, err := store.GetSetting(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.SwitchOpen, setting.Receive)
		assert.Equal(t, domain.SwitchOpen, setting.NoRecipient)
		assert.Equal(t, domain.SwitchClose, setting.TgBotStatus)
	})

	t.Run("保存后读取到新值", func(t *testing.T) {
		setting, err := store.GetSetting(ctx)
		require.NoError(t, err)
		setting.Receive = domain.SwitchClose
		setting.R2Domain = "files.example.com"
		require.NoError(t, store.SaveSetting(ctx, setting))

		got, err := store.GetSetting(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.SwitchClose, got.Receive)
		assert.Equal(t, "files.example.com", got.R2Domain)
	})

	t.Run("读取返回副本而非内部引用", func(t *testing.T) {
		got, err := store.GetSetting(ctx)
		require.NoError(t, err)
		got.Receive = 99

		again, err := store.GetSetting(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, 99, again.Receive)
	})
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	t.Run("按小写邮箱查找含软删除的账户", func(t *testing.T) {
		account := &domain.Account{UserID: 1, Email: "Box@Y.com", IsDel: domain.IsDelDelete}
		require.NoError(t, store.SaveAccount(ctx, account))
		assert.NotZero(t, account.AccountID)

		got, err := store.GetAccountByEmailIncludeDel(ctx, "box@y.com")
		require.NoError(t, err)
		assert.Equal(t, account.AccountID, got.AccountID)
		assert.Equal(t, domain.IsDelDelete, got.IsDel)
	})

	t.Run("未命中返回 ErrAccountNotFound", func(t *testing.T) {
		_, err := store.GetAccountByEmailIncludeDel(ctx, "missing@y.com")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestUserAndRoleRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	user := &domain.User{Email: "u@y.com"}
	require.NoError(t, store.SaveUser(ctx, user))
	require.NotZero(t, user.UserID)

	role := &domain.Role{UserID: user.UserID, AvailDomain: "*", BanEmailType: domain.BanTypeNone}
	require.NoError(t, store.SaveRole(ctx, role))

	t.Run("按 ID 获取用户", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, user.UserID)
		require.NoError(t, err)
		assert.Equal(t, "u@y.com", got.Email)

		_, err = store.GetUserByID(ctx, 9999)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("按用户 ID 获取角色", func(t *testing.T) {
		got, err := store.GetRoleByUserID(ctx, user.UserID)
		require.NoError(t, err)
		assert.Equal(t, "*", got.AvailDomain)

		_, err = store.GetRoleByUserID(ctx, 9999)
		assert.ErrorIs(t, err, domain.ErrRoleNotFound)
	})
}

func TestEmailRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	t.Run("创建回填自增 ID", func(t *testing.T) {
		first := &domain.Email{ToEmail: "b@y.com", Status: domain.EmailStatusSaving, IsDel: domain.IsDelDelete}
		second := &domain.Email{ToEmail: "b@y.com", Status: domain.EmailStatusSaving, IsDel: domain.IsDelDelete}
		require.NoError(t, store.CreateEmail(ctx, first))
		require.NoError(t, store.CreateEmail(ctx, second))
		assert.Equal(t, first.EmailID+1, second.EmailID)
	})

	t.Run("状态更新返回更新后的记录", func(t *testing.T) {
		email := &domain.Email{ToEmail: "b@y.com", Status: domain.EmailStatusSaving, IsDel: domain.IsDelDelete}
		require.NoError(t, store.CreateEmail(ctx, email))

		got, err := store.UpdateEmailStatus(ctx, email.EmailID, domain.EmailStatusReceived, domain.IsDelNormal)
		require.NoError(t, err)
		assert.Equal(t, domain.EmailStatusReceived, got.Status)
		assert.Equal(t, domain.IsDelNormal, got.IsDel)

		_, err = store.UpdateEmailStatus(ctx, 9999, domain.EmailStatusReceived, domain.IsDelNormal)
		assert.ErrorIs(t, err, domain.ErrEmailNotFound)
	})

	t.Run("列表仅包含未软删除的邮件", func(t *testing.T) {
		visible := &domain.Email{AccountID: 7, Status: domain.EmailStatusReceived, IsDel: domain.IsDelNormal}
		hidden := &domain.Email{AccountID: 7, Status: domain.EmailStatusSaving, IsDel: domain.IsDelDelete}
		require.NoError(t, store.CreateEmail(ctx, visible))
		require.NoError(t, store.CreateEmail(ctx, hidden))

		emails, err := store.ListEmailsByAccount(ctx, 7)
		require.NoError(t, err)
		require.Len(t, emails, 1)
		assert.Equal(t, visible.EmailID, emails[0].EmailID)
	})
}

func TestAttachmentRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	atts := []*domain.Attachment{
		{Key: "att/k1", EmailID: 3, Filename: "a.txt"},
		{Key: "att/k2", EmailID: 3},
		{Key: "att/k3", EmailID: 4},
	}
	require.NoError(t, store.CreateAttachments(ctx, atts))

	got, err := store.ListAttachmentsByEmail(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	none, err := store.ListAttachmentsByEmail(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
