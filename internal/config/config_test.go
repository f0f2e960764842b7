package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/lobbies")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 3, cfg.LobbyMinPlayers)
	assert.Equal(t, 8, cfg.PrivateKeyLength)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 20, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "JWT_SECRET=file-secret\nDATABASE_DRIVER=sqlite\nLOBBY_MIN_PLAYERS=4\nAPP_ENV=production\nLOG_LEVEL=loud\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "lobbies.db", cfg.DatabaseURL)
	assert.Equal(t, 4, cfg.LobbyMinPlayers)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "info", cfg.LogLevel, "invalid level falls back to info")
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=file-secret\nDATABASE_DRIVER=sqlite\n"), 0o600))
	t.Setenv("LOBBY_MIN_PLAYERS", "6")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.LobbyMinPlayers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": "", "DATABASE_URL": "x"}},
		{name: "missing postgres url", env: map[string]string{"JWT_SECRET": "s", "DATABASE_DRIVER": "postgres", "DATABASE_URL": ""}},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": "s", "DATABASE_DRIVER": "mysql"}},
		{name: "bad minimum", env: map[string]string{"JWT_SECRET": "s", "DATABASE_DRIVER": "sqlite", "LOBBY_MIN_PLAYERS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(t.TempDir())
			assert.Error(t, err)
		})
	}
}
