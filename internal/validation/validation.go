// internal/validation/validation.go
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/models"
)

// Config holds request validation limits. The validation collaborator runs
// before the core; the gate still re-checks role enums defensively.
type Config struct {
	MinUsernameLength    int
	MaxUsernameLength    int
	MaxEmailLength       int
	MaxNameLength        int
	MaxTitleLength       int
	MaxDescriptionLength int
	MaxContentLength     int
}

// DefaultConfig returns the default validation limits.
func DefaultConfig() *Config {
	return &Config{
		MinUsernameLength:    3,
		MaxUsernameLength:    50,
		MaxEmailLength:       255,
		MaxNameLength:        100,
		MaxTitleLength:       200,
		MaxDescriptionLength: 5000,
		MaxContentLength:     5000,
	}
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func (c *Config) Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.Validation("email is required")
	}
	if len(email) > c.MaxEmailLength {
		return apperr.Validation(fmt.Sprintf("email must be at most %d characters", c.MaxEmailLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.Validation("invalid email format")
	}
	return nil
}

func (c *Config) Username(username string) error {
	if len(username) < c.MinUsernameLength {
		return apperr.Validation(fmt.Sprintf("username must be at least %d characters", c.MinUsernameLength))
	}
	if len(username) > c.MaxUsernameLength {
		return apperr.Validation(fmt.Sprintf("username must be at most %d characters", c.MaxUsernameLength))
	}
	if !usernameRegex.MatchString(username) {
		return apperr.Validation("username may only contain letters, numbers, '_', '.' and '-'")
	}
	return nil
}

func (c *Config) FullName(name string) error {
	if len(name) > c.MaxNameLength {
		return apperr.Validation(fmt.Sprintf("name must be at most %d characters", c.MaxNameLength))
	}
	return nil
}

func (c *Config) Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title is required")
	}
	if len(title) > c.MaxTitleLength {
		return apperr.Validation(fmt.Sprintf("title must be at most %d characters", c.MaxTitleLength))
	}
	return nil
}

func (c *Config) Description(description string) error {
	if len(description) > c.MaxDescriptionLength {
		return apperr.Validation(fmt.Sprintf("description must be at most %d characters", c.MaxDescriptionLength))
	}
	return nil
}

func (c *Config) Content(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("content is required")
	}
	if len(content) > c.MaxContentLength {
		return apperr.Validation(fmt.Sprintf("content must be at most %d characters", c.MaxContentLength))
	}
	return nil
}

// TaskStatus checks status against the closed status set.
func TaskStatus(status string) error {
	if !models.ValidTaskStatus(status) {
		return apperr.Validation(fmt.Sprintf("invalid status %q", status))
	}
	return nil
}

// TaskRole checks role against the closed task role set.
func TaskRole(role models.TaskRole) error {
	if !models.ValidTaskRole(role) {
		return apperr.Validation(fmt.Sprintf("invalid role %q", role))
	}
	return nil
}
