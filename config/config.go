package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"ordermatch-backend/comparison"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the service settings read from the environment
type Config struct {
	Port     string
	LogLevel string

	GeminiAPIKey string
	GeminiModel  string

	// DatabaseURL is optional; comparison history is disabled when empty
	DatabaseURL string

	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
	ReportCacheTTL time.Duration

	NumericTolerance   decimal.Decimal
	LineMatchThreshold float64
	LineSafeZone       float64
}

// Load reads .env (current directory, then project root) and the environment
func Load() *Config {
	// Load .env file from project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Info: No .env file found, using environment variables")
		}
	}

	defaults := comparison.DefaultPolicy()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 10*1024*1024),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 5),
		ReportCacheTTL: getEnvAsDuration("REPORT_CACHE_TTL", 30*time.Minute),

		NumericTolerance:   getEnvAsDecimal("NUMERIC_TOLERANCE", defaults.NumericTolerance),
		LineMatchThreshold: getEnvAsRatio("LINE_MATCH_THRESHOLD", defaults.LineMatchThreshold),
		LineSafeZone:       getEnvAsRatio("LINE_SAFE_ZONE", defaults.DescriptionSafeZone),
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not set. Document extraction will fail.")
	}
	if cfg.LineSafeZone < cfg.LineMatchThreshold {
		log.Printf("WARNING: LINE_SAFE_ZONE %.2f is below LINE_MATCH_THRESHOLD %.2f; every fuzzy pairing will count as matched",
			cfg.LineSafeZone, cfg.LineMatchThreshold)
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, Model=%s, History=%t",
		cfg.Port, cfg.LogLevel, cfg.GeminiModel, cfg.DatabaseURL != "")
	return cfg
}

// Policy returns the comparison tolerances configured for the engine
func (c *Config) Policy() comparison.Policy {
	return comparison.Policy{
		NumericTolerance:    c.NumericTolerance,
		LineMatchThreshold:  c.LineMatchThreshold,
		DescriptionSafeZone: c.LineSafeZone,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid number for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

// getEnvAsRatio reads a similarity ratio in [0, 1]
func getEnvAsRatio(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil && value >= 0 && value <= 1 {
		return value
	}
	log.Printf("Invalid ratio for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

func getEnvAsDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := decimal.NewFromString(valueStr); err == nil && !value.IsNegative() {
		return value
	}
	log.Printf("Invalid decimal for %s ('%s'), using default: %s", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
