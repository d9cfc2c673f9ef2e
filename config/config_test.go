package config

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "API_PREFIX", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "DB_DEBUG",
		"JWT_SECRET_KEY", "JWT_ISSUER", "JWT_ACCESS_TTL", "JWT_REFRESH_TTL",
		"ADMIN_USERNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD", "REDIS_ADDR",
		"AUTH_RATE_LIMIT", "AUTH_RATE_WINDOW", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, "/api", cfg.HTTP.APIPrefix)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "task_tracker.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.False(t, cfg.Admin.Enabled())
	assert.False(t, cfg.RateLimit.Enabled())
}

func TestLoad_DefaultSecretWarning(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	t.Setenv("JWT_SECRET_KEY", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.JWT.UsesDefaultSecret())
	assert.Contains(t, buf.String(), "JWT_SECRET_KEY is not set")

	buf.Reset()
	t.Setenv("JWT_SECRET_KEY", "a-real-secret")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.JWT.UsesDefaultSecret())
	assert.NotContains(t, buf.String(), "JWT_SECRET_KEY")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_PREFIX", "/v2/")
	t.Setenv("DB_DEBUG", "true")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("AUTH_RATE_LIMIT", "3")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "admin123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/v2", cfg.HTTP.APIPrefix)
	assert.True(t, cfg.Database.Debug)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 3, cfg.RateLimit.Requests)
	assert.True(t, cfg.RateLimit.Enabled())
	assert.True(t, cfg.Admin.Enabled())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("AUTH_RATE_LIMIT", "many")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("DB_DEBUG", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.RateLimit.Requests)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.False(t, cfg.Database.Debug)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTP:     HTTPConfig{RequestTimeout: time.Second},
			Database: DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"},
			JWT:      JWTConfig{SecretKey: "s", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid sqlite", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, wantErr: true},
		{
			name: "postgres with url",
			mutate: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.URL = "postgres://localhost/tasks"
			},
		},
		{name: "empty secret", mutate: func(c *Config) { c.JWT.SecretKey = "" }, wantErr: true},
		{name: "zero access ttl", mutate: func(c *Config) { c.JWT.AccessTTL = 0 }, wantErr: true},
		{
			name: "rate limit enabled with zero requests",
			mutate: func(c *Config) {
				c.RateLimit = RateLimitConfig{RedisAddr: "localhost:6379", Window: time.Minute}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
