package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("loading task: %w", NotFound("Task not found"))

	if !errors.Is(err, &Error{Code: CodeNotFound}) {
		t.Error("errors.Is() = false, want true for matching code")
	}
	if errors.Is(err, &Error{Code: CodeForbidden}) {
		t.Error("errors.Is() = true, want false for different code")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "direct", err: Forbidden("Access denied"), want: CodeForbidden},
		{name: "wrapped", err: fmt.Errorf("x: %w", Conflict("dup")), want: CodeConflict},
		{name: "plain error", err: errors.New("boom"), want: CodeInternal},
		{name: "validation", err: Validation(FieldErrors{"title": {"required"}}), want: CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	details := FieldErrors{}
	details.Add("username", "too short")
	details.Add("email", "invalid")

	got := Validation(details).Error()
	want := "validation_error: Validation error (email, username)"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
