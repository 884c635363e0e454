package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" required:"true"`

	// Redis cache
	RedisURL      string        `env:"REDIS_URL" default:"redis://redis:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" default:"1h"`

	// RAWG API
	RawgAPIURL   string `env:"RAWG_API_URL" default:"https://api.rawg.io/api"`
	RawgAPIKey   string `env:"RAWG_API_KEY"`
	RawgPageSize int    `env:"RAWG_PAGE_SIZE" default:"40"`

	// Ingestion
	SyncWorkers    int           `env:"SYNC_WORKERS" default:"4"`
	WeeklyInterval time.Duration `env:"SYNC_WEEKLY_INTERVAL" default:"168h"`
	ClaimInterval  time.Duration `env:"SYNC_CLAIM_INTERVAL" default:"30s"`

	// Authentication
	JWTSecret string        `env:"JWT_SECRET" required:"true"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" default:"24h"`

	// Development
	LogLevel string `env:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from the working directory. Missing file is fine,
	// system environment variables still apply.
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://redis:6379"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.CacheTTL, "CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	// RAWG API
	if err := loadEnvString(&config.RawgAPIURL, "RAWG_API_URL", "https://api.rawg.io/api"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RawgAPIKey, "RAWG_API_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.RawgPageSize, "RAWG_PAGE_SIZE", 40); err != nil {
		return nil, err
	}

	// Ingestion
	if err := loadEnvInt(&config.SyncWorkers, "SYNC_WORKERS", 4); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.WeeklyInterval, "SYNC_WEEKLY_INTERVAL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.ClaimInterval, "SYNC_CLAIM_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.JWTExpiry, "JWT_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	// RAWG caps page_size at 40
	if c.RawgPageSize < 1 || c.RawgPageSize > 40 {
		errors = append(errors, "RAWG_PAGE_SIZE must be between 1 and 40")
	}

	if c.SyncWorkers < 1 {
		errors = append(errors, "SYNC_WORKERS must be at least 1")
	}

	// JWT secret should be at least 32 characters for security
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
