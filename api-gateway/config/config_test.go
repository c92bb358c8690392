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

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"http://localhost:8082"}, cfg.Inventory.Instances)
	assert.Equal(t, 30*time.Second, cfg.Inventory.Timeout)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5, cfg.Breaker.MaxFailures)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("INVENTORY_SERVICE_URLS", "http://inventory-1:8082/, http://inventory-2:8082")
	t.Setenv("RATE_LIMIT_REQUESTS", "20")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("BREAKER_OPEN_TIMEOUT", "45s")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"http://inventory-1:8082", "http://inventory-2:8082"}, cfg.Inventory.Instances)
	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Breaker.OpenTimeout)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
inventory:
  instances:
    - http://inventory:8082
  timeout: 5s
`), 0o600))

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"http://inventory:8082"}, cfg.Inventory.Instances)
	assert.Equal(t, 5*time.Second, cfg.Inventory.Timeout)
}

func TestLoadRequiresInstance(t *testing.T) {
	t.Setenv("INVENTORY_SERVICE_URLS", " , ")

	_, err := load(viper.New(), "")
	assert.Error(t, err)
}
