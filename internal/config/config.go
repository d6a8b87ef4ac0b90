package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string `env:"PORT" envDefault:"4000"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	JWTSecret          string `env:"JWT_SECRET,required"`
	JWTTTLHours        int    `env:"JWT_TTL_HOURS" envDefault:"24"`
	OpenAIAPIKey       string `env:"OPENAI_API_KEY"`
	LLMBaseURL         string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel           string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeoutSeconds  int    `env:"LLM_TIMEOUT_SECONDS" envDefault:"8"`
	ChatHistoryWindow  int    `env:"CHAT_HISTORY_WINDOW" envDefault:"12"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
