package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-tracker-api/config"
	"github.com/example/task-tracker-api/database"
	"github.com/example/task-tracker-api/domain/apperror"
	domain "github.com/example/task-tracker-api/domain/task"
	"github.com/example/task-tracker-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// TaskModule owns the task store and enforces the access policy.
type TaskModule struct {
	cfg       *config.Config
	db        *gorm.DB
	pool      *pgxpool.Pool
	publisher *busPublisher
	service   *TaskService
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule.
func NewModule(cfg *config.Config) *TaskModule {
	return &TaskModule{
		cfg:       cfg,
		publisher: &busPublisher{},
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.publisher.bus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// Start opens the task store.
func (m *TaskModule) Start(ctx context.Context) error {
	repo, err := m.openRepository(ctx)
	if err != nil {
		return err
	}
	m.service = NewTaskService(repo, m.publisher)

	log.Printf("[task] Module started (driver: %s)", m.cfg.Database.Driver)
	return nil
}

func (m *TaskModule) openRepository(ctx context.Context) (domain.Repository, error) {
	switch m.cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := database.OpenPool(ctx, m.cfg.Database.URL, TaskSchema...)
		if err != nil {
			return nil, err
		}
		m.pool = pool
		return NewPostgresTaskRepository(pool), nil
	default:
		db, err := database.OpenGorm(m.cfg.Database, &domain.Task{})
		if err != nil {
			return nil, err
		}
		m.db = db
		return NewTaskRepository(db), nil
	}
}

func (m *TaskModule) Stop(_ context.Context) error {
	if err := database.CloseGorm(m.db); err != nil {
		log.Printf("[task] Error closing database: %v", err)
	}
	if m.pool != nil {
		m.pool.Close()
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health reports whether the task store is reachable.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	var err error
	if m.pool != nil {
		err = m.pool.Ping(ctx)
	} else {
		err = database.PingGorm(ctx, m.db)
	}
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.cfg.Database.Driver,
		},
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	log.Printf("[task] Registered services: create-task, get-task, list-tasks, update-task, delete-task")
	return nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, req.Caller, req.Draft)
	if err != nil {
		return TaskResponse{Error: toAppError(err)}, nil
	}
	log.Printf("[task] Created task %d for user %d", t.ID, t.UserID)
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(ctx, req.Caller, req.TaskID)
	if err != nil {
		return TaskResponse{Error: toAppError(err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, page, err := m.service.List(ctx, req.Caller, req.Params)
	if err != nil {
		return ListTasksResponse{Error: toAppError(err)}, nil
	}
	return ListTasksResponse{Tasks: tasks, Pagination: page}, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Update(ctx, req.Caller, req.TaskID, req.Patch)
	if err != nil {
		return TaskResponse{Error: toAppError(err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.Caller, req.TaskID); err != nil {
		return DeleteTaskResponse{Error: toAppError(err)}, nil
	}
	log.Printf("[task] Deleted task %d", req.TaskID)
	return DeleteTaskResponse{Deleted: true}, nil
}

func toAppError(err error) *apperror.Error {
	if appErr := apperror.As(err); appErr != nil {
		return appErr
	}
	log.Printf("[task] Internal error: %v", err)
	return apperror.Internal()
}
