package task

import (
	"testing"

	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/example/task-tracker-api/domain/user"
)

func TestAuthorize(t *testing.T) {
	owned := &Task{ID: 1, UserID: 7}

	tests := []struct {
		name    string
		caller  Caller
		allowed bool
	}{
		{name: "owner", caller: Caller{ID: 7, Role: user.RoleUser}, allowed: true},
		{name: "other user", caller: Caller{ID: 8, Role: user.RoleUser}, allowed: false},
		{name: "admin", caller: Caller{ID: 99, Role: user.RoleAdmin}, allowed: true},
		{name: "admin owning task", caller: Caller{ID: 7, Role: user.RoleAdmin}, allowed: true},
		{name: "empty role", caller: Caller{ID: 8}, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, owned)
			if tt.allowed {
				if err != nil {
					t.Errorf("Authorize() error = %v, want nil", err)
				}
				return
			}
			if apperror.CodeOf(err) != apperror.CodeForbidden {
				t.Errorf("Authorize() error = %v, want forbidden", err)
			}
		})
	}
}
