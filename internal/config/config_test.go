package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/sumrunner/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:             ":8080",
		LogLevel:         "INFO",
		StorageDriver:    config.StorageSQLite,
		DBPath:           "test.db",
		RedisAddr:        "localhost:6379",
		PersistQueueSize: 32,
		FeedbackDelay:    1500 * time.Millisecond,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_DBPathIgnoredForMemory(t *testing.T) {
	cfg := validConfig()
	cfg.StorageDriver = config.StorageMemory
	cfg.DBPath = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidate_LogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.LogFormat = "json"
	assert.NoError(t, cfg.Validate())

	cfg.LogFormat = "xml"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestValidate_StorageDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr bool
	}{
		{name: "sqlite", driver: config.StorageSQLite},
		{name: "redis", driver: config.StorageRedis},
		{name: "memory", driver: config.StorageMemory},
		{name: "unknown", driver: "mongo", wantErr: true},
		{name: "empty", driver: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.StorageDriver = tt.driver

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "STORAGE_DRIVER")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_Redis(t *testing.T) {
	cfg := validConfig()
	cfg.StorageDriver = config.StorageRedis
	cfg.RedisAddr = ""
	cfg.RedisDB = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestValidate_FeedbackDelay(t *testing.T) {
	tests := []struct {
		name    string
		delay   time.Duration
		wantErr bool
	}{
		{name: "zero", delay: 0},
		{name: "default", delay: 1500 * time.Millisecond},
		{name: "negative", delay: -time.Second, wantErr: true},
		{name: "too long", delay: 11 * time.Second, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.FeedbackDelay = tt.delay

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "FEEDBACK_DELAY")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_DifficultyProfile(t *testing.T) {
	cfg := validConfig()
	cfg.DifficultyProfile = filepath.Join(t.TempDir(), "missing.yaml")

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DIFFICULTY_PROFILE")

	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiers: []\n"), 0o600))
	cfg.DifficultyProfile = path
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:             "",
		LogLevel:         "INVALID",
		StorageDriver:    config.StorageSQLite,
		DBPath:           "",
		PersistQueueSize: 0,
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "PERSIST_QUEUE_SIZE")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("RNG_SEED", "42")
	t.Setenv("FEEDBACK_DELAY", "250ms")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, config.StorageMemory, cfg.StorageDriver)
	assert.Equal(t, int64(42), cfg.RNGSeed)
	assert.Equal(t, 250*time.Millisecond, cfg.FeedbackDelay)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PERSIST_QUEUE_SIZE", "lots")
	t.Setenv("FEEDBACK_DELAY", "soon")

	cfg := config.Load()

	assert.Equal(t, 32, cfg.PersistQueueSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.FeedbackDelay)
}
