// internal/service/interfaces.go
package service

import (
	"context"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
)

// TaskStore is the task persistence contract consumed by services.
type TaskStore interface {
	CreateWithCreator(ctx context.Context, input *repository.TaskInput, creator *models.User, assignee *models.User) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, id string, input *repository.TaskUpdateInput) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string) ([]models.TaskSummary, error)
	ListAll(ctx context.Context, viewerID string) ([]models.TaskSummary, error)
	GetDetail(ctx context.Context, id string) (*models.TaskDetail, error)
}

// MemberStore is the membership store contract: upsert must be atomic under
// concurrent calls for the same (task, user) pair.
type MemberStore interface {
	Upsert(ctx context.Context, taskID, userID string, role models.TaskRole, username string) (*models.TaskMember, error)
	Find(ctx context.Context, taskID, userID string) (*models.TaskMember, error)
	UpdateRole(ctx context.Context, taskID, userID string, role models.TaskRole) (*models.TaskMember, error)
	Remove(ctx context.Context, taskID, userID string) error
	RemoveAllForTask(ctx context.Context, taskID string) error
	ListForTask(ctx context.Context, taskID string) ([]models.TaskMember, error)
	ListForTaskWithUsers(ctx context.Context, taskID string) ([]models.TaskMemberInfo, error)
}

// UserStore is the user lookup contract.
type UserStore interface {
	Create(ctx context.Context, input *repository.UserInput) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, input *repository.UserUpdateInput) (*models.User, error)
}

// NoteStore is the task note persistence contract.
type NoteStore interface {
	Create(ctx context.Context, taskID, createdBy, content string) (*models.TaskNote, error)
	ListForTask(ctx context.Context, taskID string) ([]models.TaskNote, error)
}
