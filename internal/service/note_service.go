// internal/service/note_service.go
package service

import (
	"context"

	"github.com/gurkanbulca/taskboard/internal/authz"
	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/validation"
)

// NoteService attaches notes to tasks. Authorization piggybacks entirely on
// task membership.
type NoteService struct {
	tasks  TaskStore
	notes  NoteStore
	policy authz.Policy
	rules  *validation.Config
	log    *logger.Logger
}

func NewNoteService(tasks TaskStore, notes NoteStore, policy authz.Policy, log *logger.Logger) *NoteService {
	return &NoteService{
		tasks:  tasks,
		notes:  notes,
		policy: policy,
		rules:  validation.DefaultConfig(),
		log:    log,
	}
}

type CreateNoteRequest struct {
	Content string `json:"content"`
}

func (s *NoteService) List(ctx context.Context, actor authz.Actor, taskID string) ([]models.TaskNote, error) {
	if err := s.authorizeMember(ctx, actor, taskID); err != nil {
		return nil, err
	}
	return s.notes.ListForTask(ctx, taskID)
}

func (s *NoteService) Create(ctx context.Context, actor authz.Actor, taskID string, req *CreateNoteRequest) (*models.TaskNote, error) {
	if err := s.authorizeMember(ctx, actor, taskID); err != nil {
		return nil, err
	}
	if err := s.rules.Content(req.Content); err != nil {
		return nil, err
	}

	note, err := s.notes.Create(ctx, taskID, actor.ID, req.Content)
	if err != nil {
		return nil, err
	}

	s.log.Info("note created", "task_id", taskID, "note_id", note.ID, "user_id", actor.ID)
	return note, nil
}

func (s *NoteService) authorizeMember(ctx context.Context, actor authz.Actor, taskID string) error {
	role, err := s.policy.Resolve(ctx, actor, taskID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, models.TaskRoleAdmin, models.TaskRoleMember); err != nil {
		return err
	}
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return err
	}
	return nil
}
