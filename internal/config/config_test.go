package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/gameinsight")
	t.Setenv("JWT_SECRET", "a-sufficiently-long-test-secret-value-123")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.GoEnv)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "https://api.rawg.io/api", cfg.RawgAPIURL)
	assert.Equal(t, 40, cfg.RawgPageSize)
	assert.Equal(t, 4, cfg.SyncWorkers)
	assert.Equal(t, 7*24*time.Hour, cfg.WeeklyInterval)
	assert.Equal(t, 30*time.Second, cfg.ClaimInterval)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.IsDevelopment())

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "a-sufficiently-long-test-secret-value-123")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GO_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RAWG_PAGE_SIZE", "25")
	t.Setenv("SYNC_CLAIM_INTERVAL", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 25, cfg.RawgPageSize)
	assert.Equal(t, 5*time.Second, cfg.ClaimInterval)
}

func TestLoadConfig_RejectsBadInt(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "eighty-eighty")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.RawgPageSize = 50
	assert.Error(t, cfg.Validate())

	cfg.RawgPageSize = 40
	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "a-sufficiently-long-test-secret-value-123"
	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())
}
