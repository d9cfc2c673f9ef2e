package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/task-tracker-api/domain/apperror"
	domain "github.com/example/task-tracker-api/domain/task"
)

// TaskService applies the owner-or-admin policy on top of a task store.
type TaskService struct {
	repo      domain.Repository
	publisher EventPublisher
}

// NewTaskService creates a new TaskService. A nil publisher disables events.
func NewTaskService(repo domain.Repository, publisher EventPublisher) *TaskService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &TaskService{
		repo:      repo,
		publisher: publisher,
	}
}

// Create stores a new task owned by the caller.
func (s *TaskService) Create(ctx context.Context, caller domain.Caller, draft domain.Draft) (*domain.Task, error) {
	if verr := domain.ValidateDraft(&draft); verr != nil {
		return nil, verr
	}

	t := domain.NewTask(caller.ID, draft)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.publisher.TaskCreated(t)
	return t, nil
}

// Get returns a task the caller may see.
func (s *TaskService) Get(ctx context.Context, caller domain.Caller, id uint) (*domain.Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(caller, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns one page of the caller's scope.
func (s *TaskService) List(ctx context.Context, caller domain.Caller, params domain.ListParams) ([]domain.Task, domain.Pagination, error) {
	q := domain.BuildQuery(caller, params)

	tasks, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, domain.NewPagination(q, total), nil
}

// Update applies a partial patch. Existence, then authorization, then input
// validity are checked in that order.
func (s *TaskService) Update(ctx context.Context, caller domain.Caller, id uint, patch domain.Patch) (*domain.Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(caller, t); err != nil {
		return nil, err
	}
	if verr := domain.ValidatePatch(&patch); verr != nil {
		return nil, verr
	}

	patch.Apply(t)
	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Task not found")
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.publisher.TaskUpdated(t, caller.ID, patch.Changed())
	return t, nil
}

// Delete removes a task the caller may manage.
func (s *TaskService) Delete(ctx context.Context, caller domain.Caller, id uint) error {
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.Authorize(caller, t); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Task not found")
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.publisher.TaskDeleted(t, caller.ID)
	return nil
}

func (s *TaskService) load(ctx context.Context, id uint) (*domain.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return t, nil
}
