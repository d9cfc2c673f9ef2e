package user

import (
	"strings"

	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/example/task-tracker-api/domain/validation"
)

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

// Registration is the input to account creation.
type Registration struct {
	Username        string `json:"username" validate:"required,min=3,max=80"`
	Email           string `json:"email" validate:"required,email,max=120"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Credentials is the input to login.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ValidateRegistration normalizes r in place and returns a validation error, or nil.
func ValidateRegistration(r *Registration) *apperror.Error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)

	details := validation.Struct(r)
	if len(r.Password) > MaxPasswordBytes {
		details.Add("password", "Length must be at most 72 bytes.")
	}
	if r.ConfirmPassword != "" && r.Password != r.ConfirmPassword {
		details.Add("confirm_password", "Passwords do not match")
	}

	if len(details) > 0 {
		return apperror.Validation(details)
	}
	return nil
}

// ValidateCredentials checks that both login fields are present.
func ValidateCredentials(c *Credentials) *apperror.Error {
	c.Username = strings.TrimSpace(c.Username)
	if details := validation.Struct(c); len(details) > 0 {
		return apperror.Validation(details)
	}
	return nil
}
