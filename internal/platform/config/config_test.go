package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "carecircle", cfg.AppName)
	assert.Equal(t, 5*time.Minute, cfg.ReminderInterval)
	assert.Equal(t, time.Hour, cfg.ReminderLookahead)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.SeedDemo)
	assert.Empty(t, cfg.DBDSN)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("REMINDER_INTERVAL", "30s")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, 30*time.Second, cfg.ReminderInterval)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestLoadFrom_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("APP_NAME=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("APP_NAME") })

	cfg, err := LoadFrom(p)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.AppName)
}

func TestLoadFrom_RejectsInvalid(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "0")

	_, err := LoadFrom("")
	require.Error(t, err)
}
