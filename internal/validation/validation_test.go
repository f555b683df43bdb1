// internal/validation/validation_test.go
package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/models"
)

func TestEmail(t *testing.T) {
	c := DefaultConfig()

	assert.NoError(t, c.Email("alice@example.com"))
	assert.True(t, apperr.IsValidation(c.Email("")))
	assert.True(t, apperr.IsValidation(c.Email("not-an-email")))
	assert.True(t, apperr.IsValidation(c.Email(strings.Repeat("a", 250)+"@example.com")))
}

func TestUsername(t *testing.T) {
	c := DefaultConfig()

	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "simple handle", username: "alice"},
		{name: "with separators", username: "alice.doe_99-x"},
		{name: "too short", username: "ab", wantErr: true},
		{name: "too long", username: strings.Repeat("a", 51), wantErr: true},
		{name: "illegal characters", username: "alice doe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Username(tt.username)
			if tt.wantErr {
				assert.True(t, apperr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTitleAndContent(t *testing.T) {
	c := DefaultConfig()

	assert.NoError(t, c.Title("Ship release"))
	assert.True(t, apperr.IsValidation(c.Title("   ")))
	assert.True(t, apperr.IsValidation(c.Title(strings.Repeat("x", 201))))

	assert.NoError(t, c.Content("deploy friday"))
	assert.True(t, apperr.IsValidation(c.Content("")))

	assert.NoError(t, c.Description(""))
	assert.True(t, apperr.IsValidation(c.Description(strings.Repeat("x", 5001))))
}

func TestTaskStatusAndRole(t *testing.T) {
	assert.NoError(t, TaskStatus(models.TaskStatusTodo))
	assert.NoError(t, TaskStatus(models.TaskStatusInProgress))
	assert.NoError(t, TaskStatus(models.TaskStatusDone))
	assert.True(t, apperr.IsValidation(TaskStatus("archived")))

	assert.NoError(t, TaskRole(models.TaskRoleAdmin))
	assert.NoError(t, TaskRole(models.TaskRoleMember))
	assert.True(t, apperr.IsValidation(TaskRole("owner")))
	assert.True(t, apperr.IsValidation(TaskRole(models.TaskRoleNone)))
}
