package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chatterbit/internal/config"
	"chatterbit/internal/db"
	apihttp "chatterbit/internal/http"
	"chatterbit/internal/llm"
	"chatterbit/internal/repository"
	"chatterbit/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.RunMigrations(ctx, cfg); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	ctxPing, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := db.Ping(ctxPing, pool); err != nil {
		cancelPing()
		logger.Fatal("db ping", zap.Error(err))
	}
	cancelPing()

	userRepo := repository.NewPgUserRepository(pool)
	convoRepo := repository.NewPgConversationRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)

	// Sin API key el chat responde con el aviso fijo en vez de fallar el arranque.
	var llmClient llm.Client = llm.NewDisabledClient()
	if cfg.OpenAIAPIKey != "" {
		llmClient = llm.NewHTTPClient(
			cfg.LLMBaseURL,
			cfg.OpenAIAPIKey,
			cfg.LLMModel,
			time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
			logger,
		)
	} else {
		logger.Warn("openai api key not configured, chat replies run in fallback mode")
	}

	limiter := service.NewMemoryRateLimiter(time.Minute, cfg.RateLimitPerMinute)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, time.Minute, cfg.RateLimitPerMinute)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	userSvc := service.NewUserService(logger, userRepo)
	chatSvc := service.NewChatService(
		logger,
		convoRepo,
		messageRepo,
		llmClient,
		cfg.ChatHistoryWindow,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
	)

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	router := apihttp.NewRouter(logger, jwtSvc, limiter, authHandler, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
