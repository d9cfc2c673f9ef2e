package api

import (
	"context"
	"strings"
	"time"

	"github.com/example/task-tracker-api/domain/apperror"
	taskdomain "github.com/example/task-tracker-api/domain/task"
	"github.com/example/task-tracker-api/domain/user"
	"github.com/example/task-tracker-api/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// ClaimsContextKey holds the verified *user.Claims.
	ClaimsContextKey = "claims"
	// CallerContextKey holds the taskdomain.Caller resolved from the store.
	CallerContextKey = "caller"
)

// RequestTimeout bounds the context handed to downstream services.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// AuthMiddleware verifies the bearer token and stores its claims.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return writeError(c, apperror.Unauthenticated("Authorization header is required"))
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return writeError(c, apperror.Unauthenticated("Invalid authorization header format. Use: Bearer <token>"))
		}

		claims, err := authPort.ValidateToken(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return writeError(c, err)
		}

		c.Locals(ClaimsContextKey, claims)
		return c.Next()
	}
}

// ResolveCaller loads the account behind the token so that deleted users are
// rejected and role changes apply immediately. It must run after AuthMiddleware.
func ResolveCaller(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(ClaimsContextKey).(*user.Claims)
		if !ok {
			return writeError(c, apperror.Unauthenticated("User not authenticated"))
		}

		u, err := authPort.GetUser(c.UserContext(), claims.UserID)
		if err != nil {
			if apperror.CodeOf(err) == apperror.CodeNotFound {
				return writeError(c, apperror.Unauthenticated("User no longer exists"))
			}
			return writeError(c, err)
		}

		c.Locals(CallerContextKey, taskdomain.Caller{ID: u.ID, Role: u.Role})
		return c.Next()
	}
}

// RequireAdmin rejects non-admin callers. It must run after ResolveCaller.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := callerFrom(c)
		if !ok {
			return writeError(c, apperror.Unauthenticated("User not authenticated"))
		}
		if !caller.IsAdmin() {
			return writeError(c, apperror.Forbidden("Admin access required"))
		}
		return c.Next()
	}
}

func callerFrom(c *fiber.Ctx) (taskdomain.Caller, bool) {
	caller, ok := c.Locals(CallerContextKey).(taskdomain.Caller)
	return caller, ok
}
