package api

import (
	"errors"
	"log"

	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string               `json:"error"`
	Code    apperror.Code        `json:"code"`
	Details apperror.FieldErrors `json:"details,omitempty"`
}

// statusFor maps an error code to its HTTP status.
func statusFor(code apperror.Code) int {
	switch code {
	case apperror.CodeValidation, apperror.CodeConflict:
		return fiber.StatusBadRequest
	case apperror.CodeInvalidCredentials, apperror.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case apperror.CodeForbidden:
		return fiber.StatusForbidden
	case apperror.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError renders err. Unclassified errors are logged and hidden.
func writeError(c *fiber.Ctx, err error) error {
	appErr := apperror.As(err)
	if appErr == nil {
		log.Printf("[api] Internal error on %s %s: %v", c.Method(), c.Path(), err)
		appErr = apperror.Internal()
	}
	return c.Status(statusFor(appErr.Code)).JSON(ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// customErrorHandler renders errors that escape handlers, including Fiber's
// own routing errors and recovered panics.
func customErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{
			Error: fe.Message,
			Code:  codeForStatus(fe.Code),
		})
	}
	return writeError(c, err)
}

func codeForStatus(status int) apperror.Code {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		return apperror.CodeValidation
	case fiber.StatusUnauthorized:
		return apperror.CodeUnauthenticated
	case fiber.StatusForbidden:
		return apperror.CodeForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return apperror.CodeNotFound
	default:
		return apperror.CodeInternal
	}
}
