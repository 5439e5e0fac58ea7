package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"mailgate/backend/internal/monitoring"
)

// HTTPMetrics HTTP 指标中间件。
func HTTPMetrics(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			c.Writer.Status(),
			time.Since(start).Seconds(),
		)
	}
}
