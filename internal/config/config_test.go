package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: cafeteria
  database: cafeteria
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 15, cfg.RateLimit.WindowMinutes)
	assert.Equal(t, 100, cfg.RateLimit.GeneralMax)
	assert.Equal(t, 10, cfg.RateLimit.OrdersMax)
	assert.Equal(t, 24, cfg.Idempotency.TTLHours)
}

func TestLoadReadsValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
rate_limit:
  window_minutes: 5
  general_max: 20
  orders_max: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.RateLimit.WindowMinutes)
	assert.Equal(t, 20, cfg.RateLimit.GeneralMax)
	assert.Equal(t, 3, cfg.RateLimit.OrdersMax)
}

func TestLoadEnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
database:
  password: from-file
`)
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
