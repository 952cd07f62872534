package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "profile-sync")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "profile-sync", cfg.App.AppName)
	assert.Equal(t, DriverPgxPool, cfg.Database.Driver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "userId", cfg.Redis.IdentityKey)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiresIn)
	assert.Equal(t, time.Second, cfg.AuthStream.MinBackoff)
	assert.Equal(t, 30*time.Second, cfg.AuthStream.MaxBackoff)
	assert.Empty(t, cfg.AuthStream.URL)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvalidEnv))
	assert.Contains(t, err.Error(), "APP_NAME")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", " STDLIB ")
	t.Setenv("DB_POOL_MAX_CONNS", "8")
	t.Setenv("DB_CONNECT_TIMEOUT", "3s")
	t.Setenv("AUTH_STREAM_URL", " ws://auth.local/state ")
	t.Setenv("AUTH_STREAM_MIN_BACKOFF", "5s")
	t.Setenv("AUTH_STREAM_MAX_BACKOFF", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverStdlib, cfg.Database.Driver)
	assert.Equal(t, int32(8), cfg.Database.PoolMaxConns)
	assert.Equal(t, 3*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, "ws://auth.local/state", cfg.AuthStream.URL)
	assert.Equal(t, 5*time.Second, cfg.AuthStream.MaxBackoff)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.True(t, errors.Is(err, errUnsupportedDriver))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{DBHost: " db ", DBPort: "5432", DBUser: "app", DBPassword: "pw", DBName: "profiles", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=profiles sslmode=disable", c.DSN())
}
