// Package httptransport 提供 HTTP 路由与处理器。
package httptransport

import (
	"net/http"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailgate/backend/internal/config"
	"mailgate/backend/internal/domain"
	"mailgate/backend/internal/inbound"
	"mailgate/backend/internal/middleware"
	"mailgate/backend/internal/monitoring"
	"mailgate/backend/internal/service"
)

// RouterDependencies 路由器依赖项。
type RouterDependencies struct {
	Config            *config.Config
	InboundService    *inbound.Service
	EmailService      *service.EmailService
	AttachmentService *service.AttachmentService
	SettingService    *service.SettingService
	Store             domain.Store
	Metrics           *monitoring.Metrics
	Logger            *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RecoveryHandler(log))
	router.Use(middleware.RequestLogger(log))
	if deps.Metrics != nil {
		router.Use(middleware.HTTPMetrics(deps.Metrics))
	}

	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	inboundHandler := NewInboundHandler(deps.InboundService, log)
	emailHandler := NewEmailHandler(deps.EmailService, deps.AttachmentService)
	settingHandler := NewSettingHandler(deps.SettingService)

	// 入站回调端点：共享密钥鉴权、限流、请求体限制。
	webhook := router.Group("/api/inbound")
	webhook.Use(
		middleware.WebhookAuth(deps.Config.Webhook.Secret, log),
		middleware.InboundRateLimit(deps.Config.Webhook.RateRPS, deps.Config.Webhook.RateBurst, log),
		middleware.BodySizeLimit(deps.Config.Webhook.BodyLimit),
	)
	webhook.POST("/email", inboundHandler.receiveEmail)

	api := router.Group("/api")
	{
		api.GET("/emails", emailHandler.listEmails)
		api.GET("/emails/:id", emailHandler.getEmail)
		api.GET("/emails/:id/attachments", emailHandler.listEmailAttachments)

		api.GET("/setting", settingHandler.getSetting)
		api.PUT("/setting", settingHandler.updateSetting)
	}

	router.GET("/health", func(c *gin.Context) {
		if deps.Store != nil {
			if err := deps.Store.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.HTTPHandler()))
	}

	return router
}
