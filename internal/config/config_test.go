package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("ADMIN_SECRET", "open-sesame")
	t.Setenv("JWT_SECRET", "dev-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.AdminTokenTTL)
	assert.Equal(t, int64(5<<20), cfg.MaxFileSize)
	assert.False(t, cfg.UseRedis())
	assert.False(t, cfg.UploadsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", "FILE")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, int64(5<<20), cfg.MaxFileSize)
	assert.True(t, cfg.UseRedis())
}

func TestValidate(t *testing.T) {
	base := Config{
		Env:           "development",
		StoreDriver:   DriverMemory,
		AdminSecret:   "s",
		JWTSecret:     "short",
		UserTokenTTL:  time.Hour,
		AdminTokenTTL: time.Minute,
		MaxFileSize:   1,
	}
	require.NoError(t, base.Validate())

	prod := base
	prod.Env = "production"
	assert.ErrorContains(t, prod.Validate(), "JWT_SECRET must be at least")

	remote := base
	remote.StoreDriver = DriverRemote
	assert.ErrorContains(t, remote.Validate(), "STORE_URL")

	pg := base
	pg.StoreDriver = DriverPostgres
	assert.ErrorContains(t, pg.Validate(), "DATABASE_URL")

	unknown := base
	unknown.StoreDriver = "mongo"
	assert.ErrorContains(t, unknown.Validate(), `unknown STORE_DRIVER "mongo"`)

	noSecret := base
	noSecret.AdminSecret = ""
	assert.ErrorContains(t, noSecret.Validate(), "ADMIN_SECRET")
}

func TestR2EndpointURL(t *testing.T) {
	cfg := &Config{R2AccountID: "abc123"}
	assert.Equal(t, "https://abc123.r2.cloudflarestorage.com", cfg.R2EndpointURL())

	cfg.R2Endpoint = "http://localhost:9000"
	assert.Equal(t, "http://localhost:9000", cfg.R2EndpointURL())
}
