package task

import (
	"strings"
	"testing"

	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr bool
	}{
		{name: "valid", draft: Draft{Title: "Buy milk"}},
		{name: "with description", draft: Draft{Title: "Buy milk", Description: strPtr("2 litres"), Completed: true}},
		{name: "missing title", draft: Draft{}, wantErr: true},
		{name: "title at limit", draft: Draft{Title: strings.Repeat("a", 200)}},
		{name: "title too long", draft: Draft{Title: strings.Repeat("a", 201)}, wantErr: true},
		{name: "multibyte title at limit", draft: Draft{Title: strings.Repeat("ü", 200)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraft(&tt.draft)
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, apperror.CodeValidation, err.Code)
				assert.Contains(t, err.Details, "title")
				return
			}
			assert.Nil(t, err)
		})
	}
}

func TestNewTask_OwnerFromArgument(t *testing.T) {
	got := NewTask(42, Draft{Title: "x", Completed: true})
	assert.Equal(t, uint(42), got.UserID)
	assert.True(t, got.Completed)
	assert.Nil(t, got.Description)
}

func TestValidatePatch(t *testing.T) {
	tests := []struct {
		name       string
		patch      Patch
		wantFields []string
	}{
		{name: "empty patch", patch: Patch{}},
		{name: "title only", patch: Patch{Title: strPtr("New")}},
		{name: "empty title", patch: Patch{Title: strPtr("")}, wantFields: []string{"title"}},
		{name: "long title", patch: Patch{Title: strPtr(strings.Repeat("x", 201))}, wantFields: []string{"title"}},
		{name: "null description allowed", patch: Patch{Nulls: []string{"description"}}},
		{name: "null title rejected", patch: Patch{Nulls: []string{"title"}}, wantFields: []string{"title"}},
		{name: "null completed rejected", patch: Patch{Nulls: []string{"completed"}}, wantFields: []string{"completed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePatch(&tt.patch)
			if len(tt.wantFields) == 0 {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			for _, f := range tt.wantFields {
				assert.Contains(t, err.Details, f)
			}
		})
	}
}

func TestPatch_Apply(t *testing.T) {
	base := func() *Task {
		return &Task{ID: 1, Title: "Old", Description: strPtr("desc"), Completed: false, UserID: 5}
	}

	t.Run("absent fields untouched", func(t *testing.T) {
		task := base()
		p := Patch{Completed: boolPtr(true)}
		p.Apply(task)
		assert.Equal(t, "Old", task.Title)
		require.NotNil(t, task.Description)
		assert.Equal(t, "desc", *task.Description)
		assert.True(t, task.Completed)
		assert.Equal(t, []string{"completed"}, p.Changed())
	})

	t.Run("null clears description", func(t *testing.T) {
		task := base()
		p := Patch{Nulls: []string{"description"}}
		p.Apply(task)
		assert.Nil(t, task.Description)
		assert.Equal(t, []string{"description"}, p.Changed())
	})

	t.Run("all fields", func(t *testing.T) {
		task := base()
		p := Patch{Title: strPtr("New"), Description: strPtr("other"), Completed: boolPtr(true)}
		p.Apply(task)
		assert.Equal(t, "New", task.Title)
		assert.Equal(t, "other", *task.Description)
		assert.True(t, task.Completed)
		assert.Equal(t, uint(5), task.UserID)
	})
}
