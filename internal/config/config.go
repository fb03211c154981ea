package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// DevJWTSecret is used only when JWT_SECRET is unset and ENV=dev.
const DevJWTSecret = "vocabflash-dev-secret"

type Config struct {
	Env                 string
	Addr                string
	DBPath              string
	LogLevel            string
	LogFormat           string
	JWTSecret           string
	JWTTTL              time.Duration
	RateLimitRequests   int
	RateLimitWindow     time.Duration
	TrustProxy          bool
	ImportWorkerCount   int
	ImportQueueSize     int
	MaintenanceInterval time.Duration
	Timezone            string
	DueLimit            int
	PracticeLimit       int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	cfg := Config{
		Env:                 envOr("ENV", "dev"),
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:vocabflash.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		LogFormat:           envOr("LOG_FORMAT", "text"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTTTL:              envDurationOr("JWT_TTL", 7*24*time.Hour),
		RateLimitRequests:   envIntOr("RATE_LIMIT_REQUESTS", 500),
		RateLimitWindow:     envDurationOr("RATE_LIMIT_WINDOW", 10*time.Minute),
		TrustProxy:          envBoolOr("TRUST_PROXY", false),
		ImportWorkerCount:   envIntOr("IMPORT_WORKER_COUNT", 1),
		ImportQueueSize:     envIntOr("IMPORT_QUEUE_SIZE", 16),
		MaintenanceInterval: envDurationOr("MAINTENANCE_INTERVAL", 6*time.Hour),
		Timezone:            envOr("TIMEZONE", "UTC"),
		DueLimit:            envIntOr("DUE_LIMIT", 20),
		PracticeLimit:       envIntOr("PRACTICE_LIMIT", 20),
	}
	if cfg.JWTSecret == "" && cfg.IsDev() {
		cfg.JWTSecret = DevJWTSecret
	}
	return cfg
}

func (c Config) IsDev() bool {
	return c.Env == "dev"
}

// Location resolves Timezone; it must only be called on a validated config.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate returns the first configuration problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV=%s", c.Env)
	}
	if !c.IsDev() && len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.ImportWorkerCount <= 0 {
		return fmt.Errorf("IMPORT_WORKER_COUNT must be positive, got %d", c.ImportWorkerCount)
	}
	if c.ImportQueueSize <= 0 {
		return fmt.Errorf("IMPORT_QUEUE_SIZE must be positive, got %d", c.ImportQueueSize)
	}
	if c.MaintenanceInterval < time.Minute {
		return fmt.Errorf("MAINTENANCE_INTERVAL must be at least 1m, got %s", c.MaintenanceInterval)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is not a known location: %v", c.Timezone, err)
	}
	if c.DueLimit < 1 || c.DueLimit > 200 {
		return fmt.Errorf("DUE_LIMIT must be between 1 and 200, got %d", c.DueLimit)
	}
	if c.PracticeLimit < 1 || c.PracticeLimit > 200 {
		return fmt.Errorf("PRACTICE_LIMIT must be between 1 and 200, got %d", c.PracticeLimit)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid boolean for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid duration for %s=%q, using default %s", key, v, def)
	}
	return def
}
