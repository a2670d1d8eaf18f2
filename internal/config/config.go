package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port    string
	Env     string
	LogMode string

	// Database
	DBDriver    string
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret      string
	AccessTokenTTL time.Duration

	// Quiz retrieval
	QuizCacheTTL time.Duration

	// Login throttling
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Bootstrap admin
	AdminUsername string
	AdminPassword string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8000"),
		Env:             getEnvOrDefault("ENV", "development"),
		LogMode:         getEnvOrDefault("LOG_MODE", "dev"),
		DBDriver:        getEnvOrDefault("DB_DRIVER", "postgres"),
		DatabaseURL:     mustGetEnv("DATABASE_URL"),
		RedisURL:        mustGetEnv("REDIS_URL"),
		JWTSecret:       mustGetEnv("JWT_SECRET"),
		AccessTokenTTL:  getEnvAsDurationOrDefault("ACCESS_TOKEN_TTL", 30*time.Minute),
		QuizCacheTTL:    getEnvAsDurationOrDefault("QUIZ_CACHE_TTL", time.Minute),
		LoginRateLimit:  getEnvAsIntOrDefault("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: getEnvAsDurationOrDefault("LOGIN_RATE_WINDOW", time.Minute),
		AdminUsername:   getEnvOrDefault("ADMIN_USERNAME", ""),
		AdminPassword:   getEnvOrDefault("ADMIN_PASSWORD", ""),
		FrontendURL:     getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
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

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// SeedConfig is the subset of settings cmd/seed needs.
type SeedConfig struct {
	LogMode     string
	DBDriver    string
	DatabaseURL string
	SeedFile    string
}

func LoadSeed() *SeedConfig {
	godotenv.Load()

	return &SeedConfig{
		LogMode:     getEnvOrDefault("LOG_MODE", "dev"),
		DBDriver:    getEnvOrDefault("DB_DRIVER", "postgres"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		SeedFile:    getEnvOrDefault("SEED_FILE", ""),
	}
}
