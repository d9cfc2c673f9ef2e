package ratelimit

import (
	"context"
	"fmt"
	"log"

	"github.com/example/task-tracker-api/config"
	"github.com/example/task-tracker-api/domain/ratelimit"
	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:auth:ip:"

// Module owns the Redis connection behind the auth endpoint limiter.
type Module struct {
	cfg        config.RateLimitConfig
	client     *redis.Client
	middleware *Middleware
}

var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new rate limiting module. Until Start connects to
// Redis its middleware is a pass-through.
func NewModule(cfg config.RateLimitConfig) *Module {
	return &Module{
		cfg:        cfg,
		middleware: NewMiddleware(nil, cfg.Requests),
	}
}

func (m *Module) Name() string {
	return "ratelimit"
}

// Start connects to Redis when a Redis address is configured.
func (m *Module) Start(ctx context.Context) error {
	if !m.cfg.Enabled() {
		log.Println("[ratelimit] Module started (disabled: REDIS_ADDR not set)")
		return nil
	}

	m.client = redis.NewClient(&redis.Options{
		Addr: m.cfg.RedisAddr,
	})
	if err := m.client.Ping(ctx).Err(); err != nil {
		m.client.Close()
		m.client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	limiter := NewSlidingWindowLimiter(m.client, ratelimit.Config{
		RequestsPerWindow: m.cfg.Requests,
		WindowSize:        m.cfg.Window,
	}, keyPrefix)
	m.middleware = NewMiddleware(limiter, m.cfg.Requests)

	log.Printf("[ratelimit] Connected to Redis at %s (%d requests per %s)", m.cfg.RedisAddr, m.cfg.Requests, m.cfg.Window)
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			log.Printf("[ratelimit] Error closing Redis connection: %v", err)
		}
	}
	log.Println("[ratelimit] Module stopped")
	return nil
}

// Health reports the Redis connection state. A disabled limiter is healthy.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "disabled",
		}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"requests": m.cfg.Requests,
			"window":   m.cfg.Window.String(),
		},
	}
}

// Middleware returns the auth endpoint limiter.
func (m *Module) Middleware() *Middleware {
	return m.middleware
}
