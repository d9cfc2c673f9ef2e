package api

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/example/task-tracker-api/domain/apperror"
	taskdomain "github.com/example/task-tracker-api/domain/task"
	"github.com/example/task-tracker-api/domain/user"
	"github.com/example/task-tracker-api/modules/activity"
	"github.com/example/task-tracker-api/modules/auth"
	"github.com/example/task-tracker-api/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity activity.ActivityPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, activityPort activity.ActivityPort) *Handlers {
	return &Handlers{
		auth:     authPort,
		tasks:    taskPort,
		activity: activityPort,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if _, err := bindJSON(c, &req, "username", "email", "password", "confirm_password"); err != nil {
		return writeError(c, err)
	}

	u, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserEnvelope{
		Message: "User created successfully",
		User:    u,
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if _, err := bindJSON(c, &req, "username", "password"); err != nil {
		return writeError(c, err)
	}

	u, tokens, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	if tokens == nil {
		return writeError(c, fmt.Errorf("login for %q returned no tokens", req.Username))
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Message:   "Login successful",
		TokenPair: *tokens,
		User:      u,
	})
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req auth.RefreshRequest
	if _, err := bindJSON(c, &req, "refresh_token"); err != nil {
		return writeError(c, err)
	}
	if req.RefreshToken == "" {
		return writeError(c, apperror.Validation(apperror.FieldErrors{
			"refresh_token": {"Missing data for required field."},
		}))
	}

	tokens, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// Profile returns the authenticated user's account.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := c.Locals(ClaimsContextKey).(*user.Claims)
	if !ok {
		return writeError(c, apperror.Unauthenticated("User not authenticated"))
	}

	u, err := h.auth.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(UserEnvelope{User: u})
}

// ListTasks returns one page of the caller's visible tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	caller, _ := callerFrom(c)

	params := taskdomain.ListParams{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", taskdomain.DefaultPerPage),
		Search:  c.Query("search"),
	}
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return writeError(c, apperror.Validation(apperror.FieldErrors{
				"completed": {"Not a valid boolean."},
			}))
		}
		params.Completed = &completed
	}

	tasks, page, err := h.tasks.ListTasks(c.UserContext(), caller, params)
	if err != nil {
		return writeError(c, err)
	}
	if tasks == nil {
		tasks = []taskdomain.Task{}
	}

	return c.Status(fiber.StatusOK).JSON(TaskListResponse{
		Tasks:      tasks,
		Pagination: page,
	})
}

// GetTask returns a single task.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	caller, _ := callerFrom(c)
	id, err := taskID(c)
	if err != nil {
		return writeError(c, err)
	}

	t, err := h.tasks.GetTask(c.UserContext(), caller, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TaskEnvelope{Task: t})
}

// CreateTask creates a task owned by the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	caller, _ := callerFrom(c)

	var body createTaskBody
	if _, err := bindJSON(c, &body, "title", "description", "completed"); err != nil {
		return writeError(c, err)
	}

	t, err := h.tasks.CreateTask(c.UserContext(), caller, taskdomain.Draft{
		Title:       body.Title,
		Description: body.Description,
		Completed:   body.Completed,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TaskEnvelope{
		Message: "Task created successfully",
		Task:    t,
	})
}

// UpdateTask applies a partial update. Absent fields are left untouched and
// an explicit null clears the description. A missing or foreign task is
// reported before anything about the body.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	caller, _ := callerFrom(c)
	id, err := taskID(c)
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.tasks.GetTask(c.UserContext(), caller, id); err != nil {
		return writeError(c, err)
	}

	var body updateTaskBody
	raw, err := bindJSON(c, &body, "title", "description", "completed")
	if err != nil {
		return writeError(c, err)
	}

	t, err := h.tasks.UpdateTask(c.UserContext(), caller, id, patchFrom(body, raw))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TaskEnvelope{
		Message: "Task updated successfully",
		Task:    t,
	})
}

// DeleteTask removes a task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	caller, _ := callerFrom(c)
	id, err := taskID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.tasks.DeleteTask(c.UserContext(), caller, id); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: "Task deleted successfully"})
}

// ListActivity returns recent task activity. Admin only.
func (h *Handlers) ListActivity(c *fiber.Ctx) error {
	entries, err := h.activity.ListActivity(c.UserContext(), c.QueryInt("limit", activity.DefaultLimit))
	if err != nil {
		return writeError(c, err)
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	return c.Status(fiber.StatusOK).JSON(ActivityResponse{Activity: entries})
}

// taskID parses the :id route parameter. Anything but a positive integer is
// reported as a missing task.
func taskID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound("Task not found")
	}
	return uint(id), nil
}

func patchFrom(body updateTaskBody, raw map[string]json.RawMessage) taskdomain.Patch {
	patch := taskdomain.Patch{
		Title:       body.Title,
		Description: body.Description,
		Completed:   body.Completed,
	}
	for _, field := range []string{"title", "description", "completed"} {
		if isNull(raw, field) {
			patch.Nulls = append(patch.Nulls, field)
		}
	}
	return patch
}
