package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	AppVersion  string

	// OpenAI
	OpenAIAPIKey   string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeoutSec  int

	// Cache
	RedisURL            string
	CacheTTLSec         int
	CacheBelowThreshold bool

	// Quality gate
	QualityThreshold      float64
	MaxGenerationAttempts int
	GenerationTimeoutSec  int

	// Rate limiting
	RateLimitRequests  int
	RateLimitWindowSec int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		AppVersion:  getEnv("APP_VERSION", "1.0.0"),

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1000),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
		LLMTimeoutSec:  getEnvInt("LLM_TIMEOUT_SEC", 30),

		// Cache; empty REDIS_URL selects the in-memory cache
		RedisURL:            getEnv("REDIS_URL", ""),
		CacheTTLSec:         getEnvInt("CACHE_TTL_SEC", 3600),
		CacheBelowThreshold: getEnvBool("CACHE_BELOW_THRESHOLD", true),

		// Quality gate
		QualityThreshold:      getEnvFloat("QUALITY_THRESHOLD", 6.0),
		MaxGenerationAttempts: getEnvInt("MAX_GENERATION_ATTEMPTS", 3),
		GenerationTimeoutSec:  getEnvInt("GENERATION_TIMEOUT_SEC", 120),

		// Rate limiting
		RateLimitRequests:  getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.QualityThreshold < 0 {
		return nil, fmt.Errorf("QUALITY_THRESHOLD must be non-negative, got %v", cfg.QualityThreshold)
	}
	if cfg.MaxGenerationAttempts < 1 {
		return nil, fmt.Errorf("MAX_GENERATION_ATTEMPTS must be at least 1, got %d", cfg.MaxGenerationAttempts)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
