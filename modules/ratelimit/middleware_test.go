package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/task-tracker-api/domain/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLimiter admits the first n calls.
type countingLimiter struct {
	n     int
	calls int
	err   error
}

func (l *countingLimiter) Allow(_ context.Context, _ string) (*ratelimit.Result, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.calls++
	if l.calls > l.n {
		return &ratelimit.Result{Allowed: false, ResetAt: time.Now().Add(time.Minute), RetryAfter: 30 * time.Second}, nil
	}
	return &ratelimit.Result{Allowed: true, Remaining: l.n - l.calls, ResetAt: time.Now().Add(time.Minute)}, nil
}

func newTestApp(mw *Middleware) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/login", mw.IPRateLimit(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestIPRateLimit_Disabled(t *testing.T) {
	var nilMiddleware *Middleware
	for _, mw := range []*Middleware{NewMiddleware(nil, 1), nilMiddleware} {
		app := newTestApp(mw)
		for i := 0; i < 5; i++ {
			resp, err := app.Test(httptest.NewRequest("POST", "/login", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
		}
	}
}

func TestIPRateLimit_Exceeded(t *testing.T) {
	app := newTestApp(NewMiddleware(&countingLimiter{n: 2}, 2))

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Reset"))
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get("Retry-After"))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestIPRateLimit_FailOpen(t *testing.T) {
	app := newTestApp(NewMiddleware(&countingLimiter{err: errors.New("connection refused")}, 1))

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSendRateLimitExceeded_MinimumRetry(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/", func(c *fiber.Ctx) error {
		return sendRateLimitExceeded(c, &ratelimit.Result{RetryAfter: 10 * time.Millisecond})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}
