package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"albaranes/internal/logger"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Storage Configuration
	StoreBackend  string
	StoreDir      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	SQLitePath    string

	// Output Configuration
	OutputDir string

	// OpenAI Configuration (note suggestions, optional)
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAITemperature float32
	OpenAIMaxTokens   int

	// Google Sheets Configuration (history export, optional)
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		StoreBackend:         strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		StoreDir:             getEnv("STORE_DIR", "./data"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              parseIntEnv("REDIS_DB", 0),
		RedisPrefix:          getEnv("REDIS_PREFIX", "albaranes:"),
		SQLitePath:           getEnv("SQLITE_PATH", "./data/albaranes.db"),
		OutputDir:            getEnv("OUTPUT_DIR", "."),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITemperature:    parseFloatEnv("OPENAI_TEMPERATURE", 0.7),
		OpenAIMaxTokens:      parseIntEnv("OPENAI_MAX_TOKENS", 200),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "Albaranes"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendFile:
		if c.StoreDir == "" {
			return fmt.Errorf("STORE_DIR is required for the file backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (file, redis, sqlite or memory)", c.StoreBackend)
	}
	if c.OpenAITemperature < 0 || c.OpenAITemperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2")
	}
	if c.OpenAIMaxTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive")
	}
	return nil
}

// HasOpenAI reports whether note suggestions can be requested.
func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseFloatEnv(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}
