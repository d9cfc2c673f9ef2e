package task

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/example/task-tracker-api/domain/validation"
)

// MaxTitleLength is measured in characters.
const MaxTitleLength = 200

// Draft is the input to task creation. Ownership is never part of it.
type Draft struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// ValidateDraft returns a validation error, or nil.
func ValidateDraft(d *Draft) *apperror.Error {
	if details := validation.Struct(d); len(details) > 0 {
		return apperror.Validation(details)
	}
	return nil
}

// NewTask builds a task owned by ownerID from a validated draft.
func NewTask(ownerID uint, d Draft) *Task {
	return &Task{
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		UserID:      ownerID,
	}
}

// Patch is a partial update. Nil fields are left untouched. Fields listed in
// Nulls were sent as an explicit JSON null.
type Patch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Completed   *bool    `json:"completed,omitempty"`
	Nulls       []string `json:"nulls,omitempty"`
}

// nullable lists the fields that accept an explicit null.
var nullable = []string{"description"}

// ValidatePatch returns a validation error, or nil.
func ValidatePatch(p *Patch) *apperror.Error {
	details := apperror.FieldErrors{}

	for _, field := range p.Nulls {
		if !slices.Contains(nullable, field) {
			details.Add(field, "Field may not be null.")
		}
	}
	if p.Title != nil {
		switch n := utf8.RuneCountInString(*p.Title); {
		case n < 1:
			details.Add("title", "Length must be at least 1.")
		case n > MaxTitleLength:
			details.Add("title", fmt.Sprintf("Length must be at most %d.", MaxTitleLength))
		}
	}

	if len(details) > 0 {
		return apperror.Validation(details)
	}
	return nil
}

// Apply copies the present fields of p onto t.
func (p *Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		desc := *p.Description
		t.Description = &desc
	} else if slices.Contains(p.Nulls, "description") {
		t.Description = nil
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Changed lists the fields p touches, for event payloads.
func (p *Patch) Changed() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil || slices.Contains(p.Nulls, "description") {
		fields = append(fields, "description")
	}
	if p.Completed != nil {
		fields = append(fields, "completed")
	}
	return fields
}
