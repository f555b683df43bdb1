// internal/service/subtask_service.go
package service

import (
	"context"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/authz"
)

// SubtaskService holds the subtask capability slots. The operations are
// not implemented yet; each returns a typed NotImplemented result rather
// than a silent no-op so callers and tests can assert on the capability.
// Subtask summaries still surface in the task detail view.
type SubtaskService struct{}

func NewSubtaskService() *SubtaskService {
	return &SubtaskService{}
}

func (s *SubtaskService) Create(ctx context.Context, actor authz.Actor, taskID string) error {
	return apperr.NotImplemented("subtask creation is not implemented yet")
}

func (s *SubtaskService) Update(ctx context.Context, actor authz.Actor, taskID, subtaskID string) error {
	return apperr.NotImplemented("subtask update is not implemented yet")
}

func (s *SubtaskService) Delete(ctx context.Context, actor authz.Actor, taskID, subtaskID string) error {
	return apperr.NotImplemented("subtask deletion is not implemented yet")
}
