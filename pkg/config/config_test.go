package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "inventory-service", cfg.Service.Name)
	assert.Equal(t, "8082", cfg.HTTP.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("REDIS_DB", "3")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: \"9000\"\nstorage:\n  driver: memory\n"), 0o600))

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)

	t.Setenv("HTTP_PORT", "9100")
	cfg, err = load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.HTTP.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := load(viper.New(), "")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Storage.Driver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = nil
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Service.Environment = "production"
	assert.Error(t, cfg.Validate())
	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}
