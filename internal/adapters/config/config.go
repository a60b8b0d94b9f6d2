package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hermes/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	AI            AIConfig
	MarketData    MarketDataConfig
	Session       SessionConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"hermes"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type HTTPConfig struct {
	Port            int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AIConfig struct {
	GeminiKey           string        `envconfig:"GEMINI_API_KEY" required:"true"`
	Model               string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	RequestTimeout      time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"30s"`
	RequestsPerMinute   int           `envconfig:"AI_REQUESTS_PER_MINUTE" default:"60"`
	ConfidenceThreshold float64       `envconfig:"CLASSIFIER_CONFIDENCE_THRESHOLD" default:"0.7"`
}

type MarketDataConfig struct {
	FinnhubKey      string        `envconfig:"FINNHUB_API_KEY"`
	FinnhubBaseURL  string        `envconfig:"FINNHUB_BASE_URL" default:"https://finnhub.io/api/v1"`
	NewsWindow      time.Duration `envconfig:"MARKET_NEWS_WINDOW" default:"168h"` // 7 days
	MaxArticles     int           `envconfig:"MARKET_MAX_ARTICLES" default:"20"`
	NewsCacheTTL    time.Duration `envconfig:"MARKET_NEWS_CACHE_TTL" default:"1h"`
	RequestTimeout  time.Duration `envconfig:"MARKET_REQUEST_TIMEOUT" default:"10s"`
}

type SessionConfig struct {
	MaxHistoryTurns int           `envconfig:"SESSION_MAX_HISTORY_TURNS" default:"5"`
	TTL             time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	Store           string        `envconfig:"SESSION_STORE" default:"memory"` // memory|redis
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables.
// A .env file is loaded first when present (development convenience).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
