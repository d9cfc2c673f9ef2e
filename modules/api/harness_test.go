package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/task-tracker-api/config"
	"github.com/example/task-tracker-api/database"
	taskdomain "github.com/example/task-tracker-api/domain/task"
	"github.com/example/task-tracker-api/domain/user"
	"github.com/example/task-tracker-api/modules/activity"
	"github.com/example/task-tracker-api/modules/auth"
	"github.com/example/task-tracker-api/modules/ratelimit"
	"github.com/example/task-tracker-api/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// localAuth serves AuthPort from an in-process AuthService.
type localAuth struct {
	service *auth.AuthService
}

func (a *localAuth) Register(ctx context.Context, req auth.RegisterRequest) (*user.User, error) {
	return a.service.Register(ctx, user.Registration{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
}

func (a *localAuth) Login(ctx context.Context, req auth.LoginRequest) (*user.User, *user.TokenPair, error) {
	return a.service.Login(ctx, user.Credentials{Username: req.Username, Password: req.Password})
}

func (a *localAuth) Refresh(ctx context.Context, refreshToken string) (*user.TokenPair, error) {
	return a.service.RefreshTokens(ctx, refreshToken)
}

func (a *localAuth) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	return a.service.ValidateToken(ctx, token)
}

func (a *localAuth) GetUser(ctx context.Context, userID uint) (*user.User, error) {
	return a.service.GetUser(ctx, userID)
}

// localTasks serves TaskPort from an in-process TaskService.
type localTasks struct {
	service *task.TaskService
}

func (t *localTasks) CreateTask(ctx context.Context, caller taskdomain.Caller, draft taskdomain.Draft) (*taskdomain.Task, error) {
	return t.service.Create(ctx, caller, draft)
}

func (t *localTasks) GetTask(ctx context.Context, caller taskdomain.Caller, id uint) (*taskdomain.Task, error) {
	return t.service.Get(ctx, caller, id)
}

func (t *localTasks) ListTasks(ctx context.Context, caller taskdomain.Caller, params taskdomain.ListParams) ([]taskdomain.Task, taskdomain.Pagination, error) {
	return t.service.List(ctx, caller, params)
}

func (t *localTasks) UpdateTask(ctx context.Context, caller taskdomain.Caller, id uint, patch taskdomain.Patch) (*taskdomain.Task, error) {
	return t.service.Update(ctx, caller, id, patch)
}

func (t *localTasks) DeleteTask(ctx context.Context, caller taskdomain.Caller, id uint) error {
	return t.service.Delete(ctx, caller, id)
}

// localActivity records task mutations straight into a feed, standing in for
// the event bus.
type localActivity struct {
	feed *activity.Feed
}

func (a *localActivity) TaskCreated(t *taskdomain.Task) {
	a.feed.Record(activity.Entry{TaskID: t.ID, UserID: t.UserID, ActorID: t.UserID, Action: activity.ActionCreated, Title: t.Title})
}

func (a *localActivity) TaskUpdated(t *taskdomain.Task, actorID uint, changed []string) {
	a.feed.Record(activity.Entry{TaskID: t.ID, UserID: t.UserID, ActorID: actorID, Action: activity.ActionUpdated, Title: t.Title, Changed: changed})
}

func (a *localActivity) TaskDeleted(t *taskdomain.Task, actorID uint) {
	a.feed.Record(activity.Entry{TaskID: t.ID, UserID: t.UserID, ActorID: actorID, Action: activity.ActionDeleted, Title: t.Title})
}

func (a *localActivity) ListActivity(_ context.Context, limit int) ([]activity.Entry, error) {
	return a.feed.Recent(limit), nil
}

func testHTTPConfig() config.HTTPConfig {
	return config.HTTPConfig{
		Addr:           ":0",
		APIPrefix:      "/api",
		RequestTimeout: 5 * time.Second,
		CORSOrigins:    "*",
	}
}

// setupTestApp wires the real services over one in-memory SQLite database
// and seeds an admin account (admin / admin123).
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.OpenGorm(
		config.DatabaseConfig{Driver: config.DriverSQLite, Path: database.MemoryPath},
		&user.User{}, &taskdomain.Task{},
	)
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseGorm(db) })

	authService := auth.NewAuthService(
		auth.NewUserRepository(db),
		auth.NewPasswordHasherWithCost(bcrypt.MinCost),
		auth.NewJWTManager(config.JWTConfig{
			SecretKey:  "test-secret-key",
			Issuer:     "test-issuer",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: time.Hour,
		}),
	)
	_, err = authService.EnsureAdmin(context.Background(), config.AdminConfig{
		Username: "admin", Email: "admin@example.com", Password: "admin123",
	})
	require.NoError(t, err)

	feed := &localActivity{feed: activity.NewFeed(activity.Capacity)}
	taskService := task.NewTaskService(task.NewTaskRepository(db), feed)

	app, err := newApp(testHTTPConfig(), NewHandlers(&localAuth{authService}, &localTasks{taskService}, feed), ratelimit.NewMiddleware(nil, 0))
	require.NoError(t, err)
	return app
}

// doJSON sends a request and decodes the JSON response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func register(t *testing.T, app *fiber.App, username string) {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, body)
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, body)
	token, ok := body["access_token"].(string)
	require.True(t, ok, body)
	return token
}
