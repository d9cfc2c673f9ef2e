package api

import (
	taskdomain "github.com/example/task-tracker-api/domain/task"
	"github.com/example/task-tracker-api/domain/user"
	"github.com/example/task-tracker-api/modules/activity"
)

// UserEnvelope wraps a single user, optionally with a message.
type UserEnvelope struct {
	Message string     `json:"message,omitempty"`
	User    *user.User `json:"user"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string `json:"message"`
	user.TokenPair
	User *user.User `json:"user"`
}

// TaskEnvelope wraps a single task, optionally with a message.
type TaskEnvelope struct {
	Message string           `json:"message,omitempty"`
	Task    *taskdomain.Task `json:"task"`
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Tasks      []taskdomain.Task     `json:"tasks"`
	Pagination taskdomain.Pagination `json:"pagination"`
}

// MessageResponse carries a confirmation message only.
type MessageResponse struct {
	Message string `json:"message"`
}

// ActivityResponse lists recent task activity, newest first.
type ActivityResponse struct {
	Activity []activity.Entry `json:"activity"`
}

// createTaskBody is the POST /tasks payload.
type createTaskBody struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// updateTaskBody is the PUT /tasks/:id payload. Explicit nulls are read from
// the raw members.
type updateTaskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}
