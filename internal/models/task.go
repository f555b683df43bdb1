package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Task status constants
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// ValidTaskStatus reports whether status is one of the known task statuses.
func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Attachment is a file reference stored inline on the task record.
type Attachment struct {
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// AttachmentList stores attachments as a jsonb column.
type AttachmentList []Attachment

func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		a = AttachmentList{}
	}
	return json.Marshal(a)
}

func (a *AttachmentList) Scan(src interface{}) error {
	if src == nil {
		*a = AttachmentList{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scan attachments: unexpected type %T", src)
	}
	return json.Unmarshal(b, a)
}

type Task struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Status      string         `db:"status" json:"status"`
	CreatedBy   string         `db:"created_by" json:"createdBy"`
	AssignedTo  sql.NullString `db:"assigned_to" json:"-"`
	AssignedBy  sql.NullString `db:"assigned_by" json:"-"`
	Attachments AttachmentList `db:"attachments" json:"attachments"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// TaskSummary is the list-view projection: the task annotated with the
// member count and the requesting actor's own role.
type TaskSummary struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	AssignedTo  *PublicUser `json:"assignedTo,omitempty"`
	MemberCount int         `json:"members"`
	MyRole      TaskRole    `json:"myRole,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// TaskDetail is the detail-view projection: assignee profile plus subtask
// summaries, each with its creator's public profile.
type TaskDetail struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	AssignedTo  *PublicUser      `json:"assignedTo,omitempty"`
	Attachments AttachmentList   `json:"attachments"`
	Subtasks    []SubtaskSummary `json:"subtasks"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type Subtask struct {
	ID          string    `db:"id" json:"id"`
	TaskID      string    `db:"task_id" json:"taskId"`
	Title       string    `db:"title" json:"title"`
	IsCompleted bool      `db:"is_completed" json:"isCompleted"`
	CreatedBy   string    `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// SubtaskSummary annotates a subtask with its creator's public profile.
type SubtaskSummary struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	IsCompleted bool        `json:"isCompleted"`
	CreatedBy   *PublicUser `json:"createdBy,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type TaskNote struct {
	ID        string    `db:"id" json:"id"`
	TaskID    string    `db:"task_id" json:"taskId"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
