// internal/service/member_service.go
package service

import (
	"context"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/authz"
	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/validation"
)

// MemberService manages task memberships: listing, adding, role changes
// and removal. Member management always requires the task admin role.
type MemberService struct {
	tasks   TaskStore
	members MemberStore
	users   UserStore
	policy  authz.Policy
	log     *logger.Logger
}

func NewMemberService(tasks TaskStore, members MemberStore, users UserStore, policy authz.Policy, log *logger.Logger) *MemberService {
	return &MemberService{
		tasks:   tasks,
		members: members,
		users:   users,
		policy:  policy,
		log:     log,
	}
}

// AddMemberRequest identifies the target user by id or email; role defaults
// to member.
type AddMemberRequest struct {
	UserID string          `json:"userId"`
	Email  string          `json:"email"`
	Role   models.TaskRole `json:"role"`
}

// List returns the member listing joined with whitelisted user fields.
// Any member may list; outsiders get NotFound.
func (s *MemberService) List(ctx context.Context, actor authz.Actor, taskID string) ([]models.TaskMemberInfo, error) {
	role, err := s.policy.Resolve(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, models.TaskRoleAdmin, models.TaskRoleMember); err != nil {
		return nil, err
	}

	// The bypass policy resolves a role without touching storage, so the
	// task itself must still be checked.
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	return s.members.ListForTaskWithUsers(ctx, taskID)
}

// Add enrolls an existing user. Duplicate adds are idempotent upserts with
// last-writer-wins on role; the storage layer's unique constraint, not a
// prior existence check, is what prevents duplicate rows under concurrency.
func (s *MemberService) Add(ctx context.Context, actor authz.Actor, taskID string, req *AddMemberRequest) (*models.TaskMemberInfo, error) {
	role, err := s.policy.Resolve(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, models.TaskRoleAdmin); err != nil {
		return nil, err
	}

	if req.Role == "" {
		req.Role = models.TaskRoleMember
	}
	if err := validation.TaskRole(req.Role); err != nil {
		return nil, err
	}

	var target *models.User
	switch {
	case req.UserID != "":
		target, err = s.users.GetByID(ctx, req.UserID)
	case req.Email != "":
		target, err = s.users.GetByEmail(ctx, req.Email)
	default:
		return nil, apperr.Validation("provide userId or email")
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("user does not exist")
		}
		return nil, err
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	member, err := s.members.Upsert(ctx, taskID, target.ID, req.Role, target.Username)
	if err != nil {
		return nil, err
	}

	s.log.Info("task member added", "task_id", taskID, "member_id", target.ID, "role", member.Role, "user_id", actor.ID)

	return &models.TaskMemberInfo{
		TaskID: member.TaskID,
		Role:   member.Role,
		User: models.MemberUser{
			ID:       target.ID,
			Username: target.Username,
			FullName: target.FullName,
			Avatar:   target.Avatar,
			Email:    target.Email,
		},
		CreatedAt: member.CreatedAt,
		UpdatedAt: member.UpdatedAt,
	}, nil
}

// ChangeRole updates an existing member's role. It never creates a
// membership: promoting a non-member fails with NotFound.
func (s *MemberService) ChangeRole(ctx context.Context, actor authz.Actor, taskID, targetUserID string, newRole models.TaskRole) (*models.TaskMember, error) {
	role, err := s.policy.Resolve(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, models.TaskRoleAdmin); err != nil {
		return nil, err
	}

	if err := validation.TaskRole(newRole); err != nil {
		return nil, err
	}

	member, err := s.members.UpdateRole(ctx, taskID, targetUserID, newRole)
	if err != nil {
		return nil, err
	}

	s.log.Info("task member role changed", "task_id", taskID, "member_id", targetUserID, "role", newRole, "user_id", actor.ID)
	return member, nil
}

// Remove deletes a membership; NotFound if the target is not a member.
func (s *MemberService) Remove(ctx context.Context, actor authz.Actor, taskID, targetUserID string) error {
	role, err := s.policy.Resolve(ctx, actor, taskID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, models.TaskRoleAdmin); err != nil {
		return err
	}

	if err := s.members.Remove(ctx, taskID, targetUserID); err != nil {
		return err
	}

	s.log.Info("task member removed", "task_id", taskID, "member_id", targetUserID, "user_id", actor.ID)
	return nil
}
