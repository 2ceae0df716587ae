package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	StripeSecretKey string
	SuccessURL      string
	CancelURL       string

	// Base URL of the managed backend hosting file storage and
	// serverless functions, e.g. https://xyz.supabase.co
	GatewayBaseURL string
	GatewayAPIKey  string
	ImageBucket    string

	RemoteTimeout time.Duration

	SNSTopicArn string

	AllowedOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour * 24 * 7,

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		SuccessURL:      getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:5173/success"),
		CancelURL:       getEnv("CHECKOUT_CANCEL_URL", "http://localhost:5173/cart"),

		GatewayBaseURL: os.Getenv("GATEWAY_BASE_URL"),
		GatewayAPIKey:  os.Getenv("GATEWAY_API_KEY"),
		ImageBucket:    getEnv("IMAGE_BUCKET", "images"),

		RemoteTimeout: 15 * time.Second,

		SNSTopicArn: os.Getenv("ORDER_EVENTS_TOPIC_ARN"),

		AllowedOrigins: []string{getEnv("FRONTEND_ORIGIN", "http://localhost:5173")},
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}

	return cfg, nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
