// internal/service/task_service.go
package service

import (
	"context"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/authz"
	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/validation"
)

// TaskService owns the task lifecycle: creation seeds the creator's admin
// membership, deletion cascades membership cleanup, assignment enrolls the
// assignee. Every operation resolves the actor's role through the
// configured policy before mutating anything.
type TaskService struct {
	tasks   TaskStore
	members MemberStore
	users   UserStore
	policy  authz.Policy
	rules   *validation.Config
	log     *logger.Logger

	// globalBypass mirrors the policy selection: under the bypass variant
	// global admins list every task and are the only actors who may create.
	globalBypass bool
}

func NewTaskService(tasks TaskStore, members MemberStore, users UserStore, policy authz.Policy, policyName string, log *logger.Logger) *TaskService {
	return &TaskService{
		tasks:        tasks,
		members:      members,
		users:        users,
		policy:       policy,
		rules:        validation.DefaultConfig(),
		log:          log,
		globalBypass: policyName == config.PolicyGlobalBypass,
	}
}

// CreateTaskRequest carries task creation fields. AssignedTo is optional.
type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	AssignedTo  string              `json:"assignedTo"`
	Attachments []models.Attachment `json:"attachments"`
}

// UpdateTaskRequest carries partial updates: absent fields stay unchanged,
// an explicit empty assignedTo clears the assignee.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssignedTo  *string `json:"assignedTo"`
}

// List returns the actor-scoped task list view. Under the bypass policy a
// global admin sees every task, still annotated with any roles they hold.
func (s *TaskService) List(ctx context.Context, actor authz.Actor) ([]models.TaskSummary, error) {
	if s.globalBypass && actor.IsGlobalAdmin() {
		return s.tasks.ListAll(ctx, actor.ID)
	}
	return s.tasks.ListForUser(ctx, actor.ID)
}

// Get returns the detail view. Non-members get NotFound, indistinguishable
// from a missing task.
func (s *TaskService) Get(ctx context.Context, actor authz.Actor, taskID string) (*models.TaskDetail, error) {
	role, err := s.policy.Resolve(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, models.TaskRoleAdmin, models.TaskRoleMember); err != nil {
		return nil, err
	}
	return s.tasks.GetDetail(ctx, taskID)
}

// Create persists the task and self-enrolls the creator as task admin; the
// two writes are a single transaction so a task can never exist without an
// admin. An initial assignee is resolved and enrolled as member.
func (s *TaskService) Create(ctx context.Context, actor authz.Actor, req *CreateTaskRequest) (*models.Task, error) {
	if s.globalBypass && !actor.IsGlobalAdmin() {
		return nil, apperr.Forbidden("you are not allowed to perform this action")
	}

	if err := s.rules.Title(req.Title); err != nil {
		return nil, err
	}
	if err := s.rules.Description(req.Description); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = models.TaskStatusTodo
	}
	if err := validation.TaskStatus(req.Status); err != nil {
		return nil, err
	}

	creator, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	var assignee *models.User
	if req.AssignedTo != "" {
		assignee, err = s.users.GetByID(ctx, req.AssignedTo)
		if err != nil {
			return nil, err
		}
	}

	input := &repository.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Attachments: req.Attachments,
	}

	task, err := s.tasks.CreateWithCreator(ctx, input, creator, assignee)
	if err != nil {
		return nil, err
	}

	s.log.Info("task created", "task_id", task.ID, "user_id", actor.ID)
	return task, nil
}

// Update applies the fields present in req. Requires an admin or member
// role on the task. Assigning a user enrolls them as member.
func (s *TaskService) Update(ctx context.Context, actor authz.Actor, taskID string, req *UpdateTaskRequest) (*models.Task, error) {
	role, err := s.policy.Resolve(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, models.TaskRoleAdmin, models.TaskRoleMember); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := s.rules.Title(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := s.rules.Description(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := validation.TaskStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	var assignee *models.User
	if req.AssignedTo != nil && *req.AssignedTo != "" {
		assignee, err = s.users.GetByID(ctx, *req.AssignedTo)
		if err != nil {
			return nil, err
		}
	}

	input := &repository.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  actor.ID,
	}

	task, err := s.tasks.Update(ctx, taskID, input)
	if err != nil {
		return nil, err
	}

	// The assignee must hold a membership. The upsert is atomic and
	// idempotent; last-writer-wins on role.
	if assignee != nil {
		if _, err := s.members.Upsert(ctx, taskID, assignee.ID, models.TaskRoleMember, assignee.Username); err != nil {
			return nil, err
		}
	}

	s.log.Info("task updated", "task_id", taskID, "user_id", actor.ID)
	return task, nil
}

// Delete removes the task and cascades its memberships. The cascade is a
// second store call: if it fails the error is surfaced and the stranded
// memberships stay a transient, reconcile-collectable state.
func (s *TaskService) Delete(ctx context.Context, actor authz.Actor, taskID string) error {
	role, err := s.policy.Resolve(ctx, actor, taskID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, models.TaskRoleAdmin); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	if err := s.members.RemoveAllForTask(ctx, taskID); err != nil {
		s.log.Error("membership cascade failed, reconcile will collect orphans", "task_id", taskID, "error", err)
		return apperr.Internal("failed to delete task members", err)
	}

	s.log.Info("task deleted", "task_id", taskID, "user_id", actor.ID)
	return nil
}
