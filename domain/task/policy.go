package task

import "github.com/example/task-tracker-api/domain/apperror"

// Authorize allows admins and the task's owner.
//
// Callers must load the task first so that a missing id reports not_found
// before ownership is considered.
func Authorize(caller Caller, t *Task) error {
	if caller.IsAdmin() || caller.ID == t.UserID {
		return nil
	}
	return apperror.Forbidden("Access denied")
}
