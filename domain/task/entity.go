package task

import (
	"time"

	"github.com/example/task-tracker-api/domain/user"
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Completed   bool      `gorm:"not null;default:false;index" json:"completed"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Caller is the authenticated identity performing a task operation.
type Caller struct {
	ID   uint      `json:"id"`
	Role user.Role `json:"role"`
}

// IsAdmin reports whether the caller may act on every task.
func (c Caller) IsAdmin() bool {
	return c.Role == user.RoleAdmin
}
