package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatterbit/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	limiter service.RateLimiter,
	authH *AuthHandler,
	chatH *ChatHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, rate limit, CORS y JSON content-type.
	r.Use(
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		RateLimitMiddleware(limiter),
		corsMiddleware(),
		jsonContentTypeMiddleware(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/heartbeat", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"alive": true,
			"time":  time.Now().UTC().Format(time.RFC3339),
		})
	})

	requireAuth := JWTAuthMiddleware(jwtSvc)

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.GET("/me", requireAuth, authH.Me)

	user := r.Group("/user")
	user.GET("/me", requireAuth, authH.Me)

	chat := r.Group("/chat", requireAuth)
	chat.GET("/conversations", chatH.ListConversations)
	chat.POST("/conversations", chatH.CreateConversation)
	chat.GET("/conversations/:id/messages", chatH.ListMessages)
	chat.POST("/conversations/:id/messages", chatH.PostMessage)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware refleja el Origin del request y permite credenciales.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
