package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailgate/backend/internal/config"
	"mailgate/backend/internal/domain"
	"mailgate/backend/internal/inbound"
	"mailgate/backend/internal/service"
	"mailgate/backend/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter 以内存存储搭建完整路由。
func newTestRouter(t *testing.T, secret string) (*gin.Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()

	settings := service.NewSettingService(store, nil, nil)
	inboundService := inbound.NewService(inbound.Dependencies{
		Settings:    settings,
		Accounts:    service.NewAccountService(store),
		Users:       service.NewUserService(store),
		Roles:       service.NewRoleService(store),
		Emails:      service.NewEmailService(store, nil),
		Attachments: service.NewAttachmentService(store, nil, nil, nil),
	})

	cfg := &config.Config{
		Webhook: config.WebhookConfig{
			Secret:    secret,
			BodyLimit: 1 << 20,
			RateRPS:   1000,
			RateBurst: 1000,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	router := NewRouter(RouterDependencies{
		Config:            cfg,
		InboundService:    inboundService,
		EmailService:      service.NewEmailService(store, nil),
		AttachmentService: service.NewAttachmentService(store, nil, nil, nil),
		SettingService:    settings,
		Store:             store,
	})
	return router, store
}

func seedTestAccount(t *testing.T, store *memory.Store, accountEmail string) {
	t.Helper()
	ctx := context.Background()
	user := &domain.User{Email: "owner@" + accountEmail[strings.Index(accountEmail, "@")+1:]}
	require.NoError(t, store.SaveUser(ctx, user))
	require.NoError(t, store.SaveAccount(ctx, &domain.Account{UserID: user.UserID, Email: accountEmail}))
	require.NoError(t, store.SaveRole(ctx, &domain.Role{UserID: user.UserID, AvailDomain: "*", BanEmailType: domain.BanTypeNone}))
}

const validPayload = `{
	"addresses": {"from":{"address":"a@x.com"},"to":{"address":"b@y.com"}},
	"subject": "hello",
	"body": {"html":"<p>hi</p>","text":"hi"}
}`

func postInbound(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReceiveEmailEndpoint(t *testing.T) {
	t.Run("合法载荷返回接收完成的邮件", func(t *testing.T) {
		router, store := newTestRouter(t, "")
		seedTestAccount(t, store, "b@y.com")

		rec := postInbound(router, "/api/inbound/email", validPayload)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, CodeSuccess, resp.Code)

		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		var email domain.Email
		require.NoError(t, json.Unmarshal(data, &email))
		assert.Equal(t, domain.EmailStatusReceived, email.Status)
		assert.Equal(t, "b@y.com", email.ToEmail)
	})

	t.Run("非法 JSON 返回 400", func(t *testing.T) {
		router, _ := newTestRouter(t, "")

		rec := postInbound(router, "/api/inbound/email", "{not json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("缺少 addresses 字段返回 400", func(t *testing.T) {
		router, _ := newTestRouter(t, "")

		rec := postInbound(router, "/api/inbound/email", `{"subject":"x"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("接收开关关闭返回 403", func(t *testing.T) {
		router, store := newTestRouter(t, "")
		ctx := context.Background()
		setting, err := store.GetSetting(ctx)
		require.NoError(t, err)
		setting.Receive = domain.SwitchClose
		require.NoError(t, store.SaveSetting(ctx, setting))

		rec := postInbound(router, "/api/inbound/email", validPayload)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("无主邮件策略关闭返回 404", func(t *testing.T) {
		router, store := newTestRouter(t, "")
		ctx := context.Background()
		setting, err := store.GetSetting(ctx)
		require.NoError(t, err)
		setting.NoRecipient = domain.SwitchClose
		require.NoError(t, store.SaveSetting(ctx, setting))

		rec := postInbound(router, "/api/inbound/email", validPayload)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestWebhookSecret(t *testing.T) {
	t.Run("密钥缺失或错误返回 401", func(t *testing.T) {
		router, _ := newTestRouter(t, "s3cret")

		rec := postInbound(router, "/api/inbound/email", validPayload)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = postInbound(router, "/api/inbound/email?secret=wrong", validPayload)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("密钥正确时放行", func(t *testing.T) {
		router, store := newTestRouter(t, "s3cret")
		seedTestAccount(t, store, "b@y.com")

		rec := postInbound(router, "/api/inbound/email?secret=s3cret", validPayload)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("未配置密钥时不校验", func(t *testing.T) {
		router, store := newTestRouter(t, "")
		seedTestAccount(t, store, "b@y.com")

		rec := postInbound(router, "/api/inbound/email", validPayload)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestReadEndpoints(t *testing.T) {
	t.Run("健康检查返回 ok", func(t *testing.T) {
		router, _ := newTestRouter(t, "")

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ok")
	})

	t.Run("按账户列出邮件", func(t *testing.T) {
		router, store := newTestRouter(t, "")
		seedTestAccount(t, store, "b@y.com")

		rec := postInbound(router, "/api/inbound/email", validPayload)
		require.Equal(t, http.StatusOK, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/emails?accountId=1", nil)
		listRec := httptest.NewRecorder()
		router.ServeHTTP(listRec, req)

		require.Equal(t, http.StatusOK, listRec.Code)
		var resp Response
		require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &resp))
		assert.Equal(t, CodeSuccess, resp.Code)
	})

	t.Run("无效账户参数返回 400", func(t *testing.T) {
		router, _ := newTestRouter(t, "")

		req := httptest.NewRequest(http.MethodGet, "/api/emails?accountId=abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("获取投递设置", func(t *testing.T) {
		router, _ := newTestRouter(t, "")

		req := httptest.NewRequest(http.MethodGet, "/api/setting", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "receive")
	})

	t.Run("更新投递设置", func(t *testing.T) {
		router, store := newTestRouter(t, "")

		req := httptest.NewRequest(http.MethodPut, "/api/setting", strings.NewReader(`{"receive":1}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		setting, err := store.GetSetting(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.SwitchClose, setting.Receive)
	})
}
