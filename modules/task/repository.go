package task

import (
	"context"
	"errors"

	domain "github.com/example/task-tracker-api/domain/task"
	"gorm.io/gorm"
)

// searchClause matches the lower-cased pattern from domain.Query.LikePattern.
// unicode_lower is registered by database.OpenGorm and folds like strings.ToLower.
const searchClause = `(unicode_lower(title) LIKE ? ESCAPE '\' OR unicode_lower(COALESCE(description, '')) LIKE ? ESCAPE '\')`

// TaskRepository handles task persistence using GORM.
type TaskRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts t and fills its generated fields.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindByID finds a task by ID.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns one page of tasks matching q and the total match count.
func (r *TaskRepository) List(ctx context.Context, q domain.Query) ([]domain.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Task{})
	if q.OwnerID != nil {
		query = query.Where("user_id = ?", *q.OwnerID)
	}
	if q.Completed != nil {
		query = query.Where("completed = ?", *q.Completed)
	}
	if pattern := q.LikePattern(); pattern != "" {
		query = query.Where(searchClause, pattern, pattern)
	}
	// Count and Find must not share statement state.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := make([]domain.Task, 0, q.Limit())
	if total == 0 {
		return tasks, 0, nil
	}
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(q.Limit()).
		Offset(q.Offset()).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update writes the mutable columns of t.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	result := r.db.WithContext(ctx).
		Model(t).
		Select("Title", "Description", "Completed", "UpdatedAt").
		Updates(t)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a task by ID.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
