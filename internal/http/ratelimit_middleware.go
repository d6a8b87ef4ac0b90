package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatterbit/internal/service"
)

// RateLimitMiddleware rechaza requests que excedan el límite por IP.
func RateLimitMiddleware(limiter service.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
