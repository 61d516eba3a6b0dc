package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	JWTSecret  string
	SessionTTL time.Duration
	RedisURL   string

	AMQPURL      string
	AMQPExchange string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	SupportEmail string
	AdminEmail   string

	SignupCredits     int
	ReconcileSchedule string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBConn:            getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=verifiedmeasure sslmode=disable"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		RedisURL:          getEnv("REDIS_URL", ""),
		AMQPURL:           getEnv("AMQP_URL", ""),
		AMQPExchange:      getEnv("AMQP_EXCHANGE", "verifiedmeasure.ledger"),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		SenderEmail:       getEnv("SENDER_EMAIL", "no-reply@verifiedmeasure.com"),
		SupportEmail:      getEnv("SUPPORT_EMAIL", "QA@verifiedmeasure.com"),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "@every 1h"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be a positive duration")
	}
	cfg.SessionTTL = ttl

	credits, err := strconv.Atoi(getEnv("SIGNUP_CREDITS", "0"))
	if err != nil || credits < 0 {
		return nil, fmt.Errorf("SIGNUP_CREDITS must be a non-negative integer")
	}
	cfg.SignupCredits = credits

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
