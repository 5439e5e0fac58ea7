package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookAuth 入站回调共享密钥鉴权中间件。
// 密钥为空时不启用校验；启用时回调 URL 须携带 ?secret=xxx。
func WebhookAuth(secret string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		provided := c.Query("secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			log.Warn("inbound webhook rejected: invalid secret",
				zap.String("ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid secret",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
