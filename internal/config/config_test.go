package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "it-manager", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:3333", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.False(t, cfg.Auth.Required)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
	assert.Equal(t, time.Minute, cfg.Redis.PrinterCacheTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.Worker.LicenseExpiryWindow())
	assert.Equal(t, "http://localhost:3333", cfg.Client.APIURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("POSTGRES_MAX_CONNS", "25")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("LICENSE_SCAN_INTERVAL_MINUTES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, int32(25), cfg.Postgres.MaxConns)
	assert.True(t, cfg.Auth.Required)
	assert.Equal(t, 5*time.Minute, cfg.Worker.LicenseScanInterval())
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
}
