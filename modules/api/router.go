package api

import (
	"fmt"

	"github.com/example/task-tracker-api/config"
	"github.com/example/task-tracker-api/modules/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	nanoid "github.com/jaevor/go-nanoid"
)

// newApp builds the Fiber application with every route mounted.
func newApp(cfg config.HTTPConfig, h *Handlers, limiter *ratelimit.Middleware) (*fiber.App, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to create request id generator: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Task Tracker API",
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: generateID,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(RequestTimeout(cfg.RequestTimeout))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	api := app.Group(cfg.APIPrefix)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", limiter.IPRateLimit(), h.Register)
	authRoutes.Post("/login", limiter.IPRateLimit(), h.Login)
	authRoutes.Post("/refresh", h.Refresh)
	authRoutes.Get("/profile", AuthMiddleware(h.auth), h.Profile)

	authenticated := []fiber.Handler{AuthMiddleware(h.auth), ResolveCaller(h.auth)}

	tasks := api.Group("/tasks", authenticated...)
	tasks.Get("/", h.ListTasks)
	tasks.Post("/", h.CreateTask)
	tasks.Get("/:id", h.GetTask)
	tasks.Put("/:id", h.UpdateTask)
	tasks.Delete("/:id", h.DeleteTask)

	api.Get("/activity", append(authenticated, RequireAdmin(), h.ListActivity)...)

	return app, nil
}
