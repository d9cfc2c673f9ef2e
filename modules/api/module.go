package api

import (
	"context"
	"fmt"
	"log"

	"github.com/example/task-tracker-api/config"
	"github.com/example/task-tracker-api/modules/activity"
	"github.com/example/task-tracker-api/modules/auth"
	"github.com/example/task-tracker-api/modules/ratelimit"
	"github.com/example/task-tracker-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
)

// APIModule serves the HTTP API.
type APIModule struct {
	cfg             config.HTTPConfig
	app             *fiber.App
	authAdapter     auth.AuthPort
	taskAdapter     task.TaskPort
	activityAdapter activity.ActivityPort
	rateLimit       *ratelimit.Module
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg config.HTTPConfig) *APIModule {
	return &APIModule{cfg: cfg}
}

func (m *APIModule) Name() string {
	return "api"
}

func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authAdapter = auth.NewAuthAdapter(container)
	case "task":
		m.taskAdapter = task.NewTaskAdapter(container)
	case "activity":
		m.activityAdapter = activity.NewActivityAdapter(container)
	}
}

// SetRateLimitModule sets the module whose middleware guards the auth endpoints.
// It must be registered, and therefore started, before the API.
func (m *APIModule) SetRateLimitModule(rlm *ratelimit.Module) {
	m.rateLimit = rlm
}

// Start builds the Fiber app and serves it in the background.
func (m *APIModule) Start(_ context.Context) error {
	if m.authAdapter == nil || m.taskAdapter == nil || m.activityAdapter == nil {
		return fmt.Errorf("api dependencies not set")
	}

	var limiter *ratelimit.Middleware
	if m.rateLimit != nil {
		limiter = m.rateLimit.Middleware()
	}

	app, err := newApp(m.cfg, NewHandlers(m.authAdapter, m.taskAdapter, m.activityAdapter), limiter)
	if err != nil {
		return err
	}
	m.app = app

	go func() {
		if err := m.app.Listen(m.cfg.Addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s (prefix %q, rate limit enabled: %t)",
		m.cfg.Addr, m.cfg.APIPrefix, limiter.Enabled())
	return nil
}

// Stop drains in-flight requests before the stores close.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.ShutdownWithContext(ctx)
}

func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.cfg.Addr,
		},
	}
}
