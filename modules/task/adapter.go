package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker-api/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the task operations available to other modules.
// Domain failures are returned as *apperror.Error.
type TaskPort interface {
	CreateTask(ctx context.Context, caller domain.Caller, draft domain.Draft) (*domain.Task, error)
	GetTask(ctx context.Context, caller domain.Caller, taskID uint) (*domain.Task, error)
	ListTasks(ctx context.Context, caller domain.Caller, params domain.ListParams) ([]domain.Task, domain.Pagination, error)
	UpdateTask(ctx context.Context, caller domain.Caller, taskID uint, patch domain.Patch) (*domain.Task, error)
	DeleteTask(ctx context.Context, caller domain.Caller, taskID uint) error
}

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, caller domain.Caller, draft domain.Draft) (*domain.Task, error) {
	req := CreateTaskRequest{Caller: caller, Draft: draft}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-task service call failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Task, nil
}

// GetTask retrieves a task via the get-task service.
func (a *taskAdapter) GetTask(ctx context.Context, caller domain.Caller, taskID uint) (*domain.Task, error) {
	req := GetTaskRequest{Caller: caller, TaskID: taskID}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-task service call failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Task, nil
}

// ListTasks lists tasks via the list-tasks service.
func (a *taskAdapter) ListTasks(ctx context.Context, caller domain.Caller, params domain.ListParams) ([]domain.Task, domain.Pagination, error) {
	req := ListTasksRequest{Caller: caller, Params: params}
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-tasks",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("list-tasks service call failed: %w", err)
	}
	if resp.Error != nil {
		return nil, domain.Pagination{}, resp.Error
	}
	return resp.Tasks, resp.Pagination, nil
}

// UpdateTask patches a task via the update-task service.
func (a *taskAdapter) UpdateTask(ctx context.Context, caller domain.Caller, taskID uint, patch domain.Patch) (*domain.Task, error) {
	req := UpdateTaskRequest{Caller: caller, TaskID: taskID, Patch: patch}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("update-task service call failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Task, nil
}

// DeleteTask removes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, caller domain.Caller, taskID uint) error {
	req := DeleteTaskRequest{Caller: caller, TaskID: taskID}
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("delete-task service call failed: %w", err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	return nil
}
