package task

import (
	"github.com/example/task-tracker-api/domain/apperror"
	domain "github.com/example/task-tracker-api/domain/task"
)

// CreateTaskRequest creates a task owned by Caller.
type CreateTaskRequest struct {
	Caller domain.Caller `json:"caller"`
	Draft  domain.Draft  `json:"draft"`
}

// GetTaskRequest fetches a single task.
type GetTaskRequest struct {
	Caller domain.Caller `json:"caller"`
	TaskID uint          `json:"task_id"`
}

// ListTasksRequest lists tasks in the caller's scope.
type ListTasksRequest struct {
	Caller domain.Caller     `json:"caller"`
	Params domain.ListParams `json:"params"`
}

// UpdateTaskRequest applies a partial update.
type UpdateTaskRequest struct {
	Caller domain.Caller `json:"caller"`
	TaskID uint          `json:"task_id"`
	Patch  domain.Patch  `json:"patch"`
}

// DeleteTaskRequest removes a task.
type DeleteTaskRequest struct {
	Caller domain.Caller `json:"caller"`
	TaskID uint          `json:"task_id"`
}

// TaskResponse carries a single task or a domain error.
type TaskResponse struct {
	Task  *domain.Task    `json:"task,omitempty"`
	Error *apperror.Error `json:"error,omitempty"`
}

// ListTasksResponse carries one page of tasks.
type ListTasksResponse struct {
	Tasks      []domain.Task     `json:"tasks"`
	Pagination domain.Pagination `json:"pagination"`
	Error      *apperror.Error   `json:"error,omitempty"`
}

// DeleteTaskResponse reports whether the task was removed.
type DeleteTaskResponse struct {
	Deleted bool            `json:"deleted"`
	Error   *apperror.Error `json:"error,omitempty"`
}
