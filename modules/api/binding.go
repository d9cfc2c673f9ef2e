package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"slices"

	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/gofiber/fiber/v2"
)

// bindJSON decodes a JSON object body into dst and returns the raw members
// so callers can tell absent keys from explicit nulls. Keys outside allowed
// are rejected. An empty body decodes as an empty object.
func bindJSON(c *fiber.Ctx, dst any, allowed ...string) (map[string]json.RawMessage, error) {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, apperror.Validation(apperror.FieldErrors{
			"_schema": {"Invalid input type."},
		})
	}

	details := apperror.FieldErrors{}
	for key := range raw {
		if !slices.Contains(allowed, key) {
			details.Add(key, "Unknown field.")
		}
	}
	if len(details) > 0 {
		return nil, apperror.Validation(details)
	}

	if err := c.BodyParser(dst); err != nil {
		return nil, decodeError(err)
	}
	return raw, nil
}

// isNull reports whether key was sent as an explicit JSON null.
func isNull(raw map[string]json.RawMessage, key string) bool {
	v, ok := raw[key]
	return ok && bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeError turns a decoder failure into field-level details.
func decodeError(err error) *apperror.Error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperror.Validation(apperror.FieldErrors{
			typeErr.Field: {typeMessage(typeErr.Type)},
		})
	}
	if errors.Is(err, fiber.ErrUnprocessableEntity) {
		return apperror.New(apperror.CodeValidation, "Content-Type must be application/json")
	}
	return apperror.Validation(apperror.FieldErrors{
		"_schema": {"Invalid input type."},
	})
}

func typeMessage(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "Not a valid string."
	case reflect.Bool:
		return "Not a valid boolean."
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Not a valid integer."
	default:
		return "Invalid value."
	}
}
