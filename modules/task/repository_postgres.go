package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/task-tracker-api/domain/task"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskSchema creates the tasks table on PostgreSQL.
var TaskSchema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id          BIGSERIAL PRIMARY KEY,
		title       VARCHAR(200) NOT NULL,
		description TEXT,
		completed   BOOLEAN      NOT NULL DEFAULT FALSE,
		user_id     BIGINT       NOT NULL,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ  NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at DESC, id DESC)`,
}

const taskColumns = `id, title, description, completed, user_id, created_at, updated_at`

// PostgresTaskRepository handles task persistence using pgx.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

var _ domain.Repository = (*PostgresTaskRepository)(nil)

// NewPostgresTaskRepository creates a new PostgresTaskRepository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Create inserts t and fills its generated fields.
func (r *PostgresTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, description, completed, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Description, t.Completed, int64(t.UserID),
	).Scan(&id, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}
	t.ID = uint(id)
	return nil
}

// FindByID finds a task by ID.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, int64(id))
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns one page of tasks matching q and the total match count.
func (r *PostgresTaskRepository) List(ctx context.Context, q domain.Query) ([]domain.Task, int64, error) {
	where, args := buildWhere(q)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	if total == 0 {
		return []domain.Task{}, 0, nil
	}

	n := len(args)
	sql := fmt.Sprintf(`SELECT %s FROM tasks%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		taskColumns, where, n+1, n+2)
	rows, err := r.pool.Query(ctx, sql, append(args, q.Limit(), q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Task, error) {
		return scanTask(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan tasks: %w", err)
	}
	return tasks, total, nil
}

// Update writes the mutable columns of t.
func (r *PostgresTaskRepository) Update(ctx context.Context, t *domain.Task) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE tasks SET title = $1, description = $2, completed = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING updated_at`,
		t.Title, t.Description, t.Completed, int64(t.ID),
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// Delete removes a task by ID.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildWhere renders the filters of q as a WHERE clause with positional args.
func buildWhere(q domain.Query) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.OwnerID != nil {
		conds = append(conds, "user_id = "+next(int64(*q.OwnerID)))
	}
	if q.Completed != nil {
		conds = append(conds, "completed = "+next(*q.Completed))
	}
	if pattern := q.LikePattern(); pattern != "" {
		p := next(pattern)
		conds = append(conds, fmt.Sprintf(`(LOWER(title) LIKE %s ESCAPE '\' OR LOWER(description) LIKE %s ESCAPE '\')`, p, p))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		t      domain.Task
		id     int64
		userID int64
	)
	if err := row.Scan(&id, &t.Title, &t.Description, &t.Completed, &userID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Task{}, err
	}
	t.ID = uint(id)
	t.UserID = uint(userID)
	return t, nil
}
