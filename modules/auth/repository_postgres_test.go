package auth

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/example/task-tracker-api/database"
	"github.com/example/task-tracker-api/domain/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// setupTestPool connects to TEST_DATABASE_URL or skips.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.OpenPool(ctx, url, UserSchema)
	if err != nil {
		t.Skipf("Skipping test: database not available: %v", err)
	}

	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test-%@example.com'"); err != nil {
		pool.Close()
		t.Fatalf("failed to clean up test data: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresUserRepository_CreateAndFind(t *testing.T) {
	repo := NewPostgresUserRepository(setupTestPool(t))
	ctx := context.Background()

	u := &user.User{Username: "test-pg-alice", Email: "test-pg-alice@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("Create() did not fill generated fields: %+v", u)
	}
	if u.Role != user.RoleUser {
		t.Errorf("Role = %q, want %q", u.Role, user.RoleUser)
	}

	found, err := repo.FindByUsername(ctx, "test-pg-alice")
	if err != nil {
		t.Fatalf("FindByUsername() error = %v", err)
	}
	if found.ID != u.ID {
		t.Errorf("FindByUsername().ID = %d, want %d", found.ID, u.ID)
	}

	exists, err := repo.EmailExists(ctx, "test-pg-alice@example.com")
	if err != nil || !exists {
		t.Errorf("EmailExists() = %v, %v; want true, nil", exists, err)
	}
}

func TestPostgresUserRepository_Duplicate(t *testing.T) {
	repo := NewPostgresUserRepository(setupTestPool(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &user.User{Username: "test-pg-dup", Email: "test-pg-dup@example.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := repo.Create(ctx, &user.User{Username: "test-pg-dup", Email: "test-pg-dup2@example.com", PasswordHash: "h"})
	if !errors.Is(err, user.ErrDuplicate) {
		t.Errorf("Create() error = %v, want ErrDuplicate", err)
	}
}

func TestPostgresUserRepository_NotFound(t *testing.T) {
	repo := NewPostgresUserRepository(setupTestPool(t))

	if _, err := repo.FindByID(context.Background(), 1<<40); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("FindByID() error = %v, want ErrNotFound", err)
	}
}
