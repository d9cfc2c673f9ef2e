package ratelimit

import (
	"fmt"
	"log"
	"strconv"

	"github.com/example/task-tracker-api/domain/ratelimit"
	"github.com/gofiber/fiber/v2"
)

// Middleware throttles requests by client IP. A Middleware without a limiter
// lets every request through.
type Middleware struct {
	limiter ratelimit.Limiter
	limit   int
}

// NewMiddleware creates rate limiting middleware. limiter may be nil.
func NewMiddleware(limiter ratelimit.Limiter, limit int) *Middleware {
	return &Middleware{
		limiter: limiter,
		limit:   limit,
	}
}

// Enabled reports whether requests are actually counted.
func (m *Middleware) Enabled() bool {
	return m != nil && m.limiter != nil
}

// IPRateLimit returns middleware that limits requests by client IP.
// Limiter failures let the request through.
func (m *Middleware) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !m.Enabled() {
			return c.Next()
		}

		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Unable to determine client IP address",
				"code":  "forbidden",
			})
		}

		result, err := m.limiter.Allow(c.UserContext(), ip)
		if err != nil {
			log.Printf("[ratelimit] Warning: limiter unavailable, allowing request: %v", err)
			return c.Next()
		}

		setRateLimitHeaders(c, result, m.limit)

		if !result.Allowed {
			return sendRateLimitExceeded(c, result)
		}
		return c.Next()
	}
}

func setRateLimitHeaders(c *fiber.Ctx, result *ratelimit.Result, limit int) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func sendRateLimitExceeded(c *fiber.Ctx, result *ratelimit.Result) error {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter),
		"code":        "rate_limited",
		"retry_after": retryAfter,
	})
}
