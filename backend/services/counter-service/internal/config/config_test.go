package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", "")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("COUNTER_POSTGRES_DSN", "postgres://localhost/bclub")
	t.Setenv("COUNTER_JWT_SECRET", "s")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.HTTPAddress())
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, 24*time.Hour, cfg.RedisTTL())
	assert.Equal(t, []string{"A", "B"}, cfg.Venue.Tables)
	assert.Equal(t, "DT", cfg.Venue.Currency)
	assert.Equal(t, 2*time.Second, cfg.Live.Interval)
	assert.Equal(t, "Africa/Tunis", cfg.Location().String())
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("COUNTER_HTTP_PORT", "9000")
	t.Setenv("COUNTER_TABLES", "a, b ,c")
	t.Setenv("COUNTER_REDIS_ADDR", "localhost:6379")
	t.Setenv("COUNTER_LIVE_INTERVAL", "500ms")
	t.Setenv("COUNTER_TIMEZONE", "UTC")
	t.Setenv("COUNTER_AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddress())
	assert.Equal(t, []string{"A", "B", "C"}, cfg.Venue.Tables)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 500*time.Millisecond, cfg.Live.Interval)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoadFromYAML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "counter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("venue:\n  currency: TND\n  tables: [X]\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "TND", cfg.Venue.Currency)
	assert.Equal(t, []string{"X"}, cfg.Venue.Tables)
}

func TestLoadValidation(t *testing.T) {
	isolate(t)
	t.Setenv("COUNTER_TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)

	isolate(t)
	t.Setenv("COUNTER_TIMEZONE", "UTC")
	t.Setenv("COUNTER_JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}
