package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-tracker-api/config"
	"github.com/example/task-tracker-api/modules/activity"
	"github.com/example/task-tracker-api/modules/api"
	"github.com/example/task-tracker-api/modules/auth"
	"github.com/example/task-tracker-api/modules/ratelimit"
	"github.com/example/task-tracker-api/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Task Tracker API ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	rateLimitModule := ratelimit.NewModule(cfg.RateLimit)
	apiModule := api.NewModule(cfg.HTTP)
	apiModule.SetRateLimitModule(rateLimitModule)

	// Independent modules first. The API is registered last so that it is
	// stopped first and drains requests before the stores close.
	app.Register(auth.NewModule(cfg))
	app.Register(activity.NewModule())
	app.Register(task.NewModule(cfg))
	app.Register(rateLimitModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config) {
	p := cfg.HTTP.APIPrefix
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("  Database:   %s", cfg.Database.Driver)
	if cfg.RateLimit.Enabled() {
		log.Printf("  Rate limit: %d requests per %s on %s/auth/register and %s/auth/login", cfg.RateLimit.Requests, cfg.RateLimit.Window, p, p)
	} else {
		log.Println("  Rate limit: disabled (set REDIS_ADDR to enable)")
	}
	log.Println("")
	log.Printf("REST API Endpoints (%s):", cfg.HTTP.Addr)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Printf("  POST   %s/auth/register  - Register a new user", p)
	log.Printf("  POST   %s/auth/login     - Login and get tokens", p)
	log.Printf("  POST   %s/auth/refresh   - Refresh access token", p)
	log.Println("  GET    /health                - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Printf("  GET    %s/auth/profile   - Current user profile", p)
	log.Printf("  GET    %s/tasks          - List tasks (page, per_page, completed, search)", p)
	log.Printf("  POST   %s/tasks          - Create a task", p)
	log.Printf("  GET    %s/tasks/:id      - Get a task", p)
	log.Printf("  PUT    %s/tasks/:id      - Update a task", p)
	log.Printf("  DELETE %s/tasks/:id      - Delete a task", p)
	log.Printf("  GET    %s/activity       - Recent task activity (admin)", p)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
