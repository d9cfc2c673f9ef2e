// Package apperror defines the error taxonomy shared by every module.
//
// Errors cross module boundaries inside service responses, so Error is a plain
// JSON-serializable value rather than an opaque Go error chain.
package apperror

import (
	"errors"
	"sort"
	"strings"
)

// Code classifies an Error.
type Code string

const (
	CodeValidation         Code = "validation_error"
	CodeConflict           Code = "conflict"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthenticated    Code = "unauthenticated"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeInternal           Code = "internal"
)

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Error is a classified, client-safe error.
type Error struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Details FieldErrors `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return string(e.Code) + ": " + e.Message
	}
	fields := make([]string, 0, len(e.Details))
	for field := range e.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return string(e.Code) + ": " + e.Message + " (" + strings.Join(fields, ", ") + ")"
}

// Is matches on Code so errors.Is(err, &Error{Code: CodeNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates an Error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Validation creates a validation error carrying field details.
func Validation(details FieldErrors) *Error {
	return &Error{Code: CodeValidation, Message: "Validation error", Details: details}
}

// Conflict creates a duplicate-key error.
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// NotFound creates a missing-resource error.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Forbidden creates an authorization error.
func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

// Unauthenticated creates a missing or invalid token error.
func Unauthenticated(message string) *Error {
	return New(CodeUnauthenticated, message)
}

// InvalidCredentials is returned for every failed login.
func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, "Invalid credentials")
}

// Internal creates an error whose message is safe to show clients.
func Internal() *Error {
	return New(CodeInternal, "An internal error occurred")
}

// As extracts an *Error from err, or nil.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf returns the code of err, or CodeInternal for unclassified errors.
func CodeOf(err error) Code {
	if appErr := As(err); appErr != nil {
		return appErr.Code
	}
	return CodeInternal
}
