// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all settings for the service.
type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig

	ShutdownTimeout time.Duration
}

// HTTPConfig configures the Fiber server.
type HTTPConfig struct {
	Addr           string
	APIPrefix      string
	RequestTimeout time.Duration
	CORSOrigins    string
}

// DatabaseConfig selects and configures the store backend.
type DatabaseConfig struct {
	Driver string
	Path   string // sqlite file, ":memory:" allowed
	URL    string // postgres connection string
	Debug  bool
}

// DefaultJWTSecret is used when JWT_SECRET_KEY is unset. It is public and must
// be replaced outside local development.
const DefaultJWTSecret = "change-me-in-production"

// JWTConfig configures token issuance.
type JWTConfig struct {
	SecretKey  string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// UsesDefaultSecret reports whether tokens are signed with DefaultJWTSecret.
func (j JWTConfig) UsesDefaultSecret() bool {
	return j.SecretKey == DefaultJWTSecret
}

// AdminConfig seeds an administrator account on startup when all fields are set.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether an admin account should be seeded.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.Email != "" && a.Password != ""
}

// RateLimitConfig configures throttling of the public auth endpoints.
type RateLimitConfig struct {
	RedisAddr string
	Requests  int
	Window    time.Duration
}

// Enabled reports whether a Redis backend is configured.
func (r RateLimitConfig) Enabled() bool {
	return r.RedisAddr != ""
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] Warning: could not load .env: %v", err)
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:           getEnv("HTTP_ADDR", ":3000"),
			APIPrefix:      strings.TrimRight(getEnv("API_PREFIX", "/api"), "/"),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
			CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:   getEnv("DB_PATH", "task_tracker.db"),
			URL:    os.Getenv("DATABASE_URL"),
			Debug:  getEnvBool("DB_DEBUG", false),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", DefaultJWTSecret),
			Issuer:     getEnv("JWT_ISSUER", "task-tracker-api"),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", time.Hour),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Admin: AdminConfig{
			Username: os.Getenv("ADMIN_USERNAME"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			RedisAddr: os.Getenv("REDIS_ADDR"),
			Requests:  getEnvInt("AUTH_RATE_LIMIT", 10),
			Window:    getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
		},
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWT.UsesDefaultSecret() {
		log.Println("[config] Warning: JWT_SECRET_KEY is not set, signing tokens with the built-in default secret")
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at module start.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.JWT.SecretKey == "" {
		return errors.New("JWT_SECRET_KEY must not be empty")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.HTTP.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimit.Enabled() && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_WINDOW must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("[config] Warning: invalid integer for %s, using %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("[config] Warning: invalid boolean for %s, using %t", key, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("[config] Warning: invalid duration for %s, using %s", key, defaultValue)
	}
	return defaultValue
}
