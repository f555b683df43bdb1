// internal/service/user_service.go
package service

import (
	"context"

	"github.com/gurkanbulca/taskboard/internal/authz"
	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/validation"
)

// UserService handles profile reads and updates. A username change also
// refreshes the cached username on the user's memberships.
type UserService struct {
	users UserStore
	rules *validation.Config
	log   *logger.Logger
}

func NewUserService(users UserStore, log *logger.Logger) *UserService {
	return &UserService{
		users: users,
		rules: validation.DefaultConfig(),
		log:   log,
	}
}

// UpdateProfileRequest carries partial profile updates.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"fullName"`
	Avatar   *string `json:"avatar"`
}

func (s *UserService) Get(ctx context.Context, actor authz.Actor) (*models.User, error) {
	return s.users.GetByID(ctx, actor.ID)
}

func (s *UserService) UpdateProfile(ctx context.Context, actor authz.Actor, req *UpdateProfileRequest) (*models.User, error) {
	if req.Username != nil {
		if err := s.rules.Username(*req.Username); err != nil {
			return nil, err
		}
	}
	if req.FullName != nil {
		if err := s.rules.FullName(*req.FullName); err != nil {
			return nil, err
		}
	}

	user, err := s.users.UpdateProfile(ctx, actor.ID, &repository.UserUpdateInput{
		Username: req.Username,
		FullName: req.FullName,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("profile updated", "user_id", actor.ID)
	return user, nil
}
