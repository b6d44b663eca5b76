package middleware

import (
	"net/http"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// CronKeyHeader carries the external scheduler's API key.
const CronKeyHeader = "X-API-Key"

// CronKeyAuth authenticates the external scheduler against the bcrypt hash of
// its API key. An empty hash rejects every call.
func CronKeyAuth(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		key := c.GetHeader(CronKeyHeader)
		if key == "" || keyHash == "" {
			logger.Warn("Cron call without usable API key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if !utils.CheckAPIKeyHash(key, keyHash) {
			logger.Warn("Cron API key rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		withUser(c, domain.SystemActor, "api_key")
		c.Next()
	}
}
