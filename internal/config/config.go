package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Upstream LLM gateway
	UpstreamBaseURL string
	UpstreamAPIKey  string
	UpstreamModel   string

	// Chat rate limiting
	ChatRateLimit         int
	ChatRateWindowSeconds int

	// Exchange rates
	RatesAPIURL     string
	RatesTTLSeconds int

	// Admin
	JWTSecret         string
	AdminPasswordHash string

	// SMTP
	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string
	SalesEmail string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),

		UpstreamBaseURL: mustGetEnv("UPSTREAM_BASE_URL"),
		UpstreamAPIKey:  mustGetEnv("UPSTREAM_API_KEY"),
		UpstreamModel:   getEnvOrDefault("UPSTREAM_MODEL", "gpt-4o-mini"),

		ChatRateLimit:         getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 20),
		ChatRateWindowSeconds: getEnvAsIntOrDefault("CHAT_RATE_WINDOW_SECONDS", 3600),

		RatesAPIURL:     getEnvOrDefault("RATES_API_URL", "https://open.er-api.com/v6/latest/USD"),
		RatesTTLSeconds: getEnvAsIntOrDefault("RATES_TTL_SECONDS", 3600),

		JWTSecret:         mustGetEnv("JWT_SECRET"),
		AdminPasswordHash: getEnvOrDefault("ADMIN_PASSWORD_HASH", ""),

		SMTPHost:   getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:   getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:   getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:   getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom:   getEnvOrDefault("SMTP_FROM", "noreply@voltamax.energy"),
		SalesEmail: getEnvOrDefault("SALES_EMAIL", "sales@voltamax.energy"),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
