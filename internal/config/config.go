package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	Addr              string
	LogLevel          string
	LogFormat         string
	StorageDriver     string
	DBPath            string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RedisPrefix       string
	PersistQueueSize  int
	DifficultyProfile string
	RNGSeed           int64
	FeedbackDelay     time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", "127.0.0.1:8080"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		LogFormat:         strings.ToLower(envOr("LOG_FORMAT", "text")),
		StorageDriver:     strings.ToLower(envOr("STORAGE_DRIVER", StorageSQLite)),
		DBPath:            envOr("DB_PATH", "file:sumrunner.db"),
		RedisAddr:         envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     envOr("REDIS_PASSWORD", ""),
		RedisDB:           envIntOr("REDIS_DB", 0),
		RedisPrefix:       envOr("REDIS_PREFIX", "sumrunner:"),
		PersistQueueSize:  envIntOr("PERSIST_QUEUE_SIZE", 32),
		DifficultyProfile: envOr("DIFFICULTY_PROFILE", ""),
		RNGSeed:           envInt64Or("RNG_SEED", 0),
		FeedbackDelay:     envDurationOr("FEEDBACK_DELAY", 1500*time.Millisecond),
	}
}

// Validate checks the configuration and reports every problem found at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, fmt.Errorf("ADDR cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	switch c.StorageDriver {
	case StorageSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			errs = append(errs, fmt.Errorf("DB_PATH cannot be empty when STORAGE_DRIVER=sqlite"))
		}
	case StorageRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, fmt.Errorf("REDIS_ADDR cannot be empty when STORAGE_DRIVER=redis"))
		}
		if c.RedisDB < 0 {
			errs = append(errs, fmt.Errorf("REDIS_DB must be >= 0, got %d", c.RedisDB))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of sqlite, redis, memory, got %q", c.StorageDriver))
	}
	if c.PersistQueueSize < 1 {
		errs = append(errs, fmt.Errorf("PERSIST_QUEUE_SIZE must be at least 1, got %d", c.PersistQueueSize))
	}
	if c.FeedbackDelay < 0 || c.FeedbackDelay > 10*time.Second {
		errs = append(errs, fmt.Errorf("FEEDBACK_DELAY must be between 0s and 10s, got %s", c.FeedbackDelay))
	}
	if c.DifficultyProfile != "" {
		if _, err := os.Stat(c.DifficultyProfile); err != nil {
			errs = append(errs, fmt.Errorf("DIFFICULTY_PROFILE not readable: %w", err))
		}
	}

	return errors.Join(errs...)
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

func envInt64Or(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
