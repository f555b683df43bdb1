// internal/repository/note_repository.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskboard/internal/models"
)

type NoteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, taskID, createdBy, content string) (*models.TaskNote, error) {
	now := time.Now().UTC()
	n := &models.TaskNote{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		CreatedBy: createdBy,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	const query = `
		INSERT INTO task_notes (id, task_id, created_by, content, created_at, updated_at)
		VALUES (:id, :task_id, :created_by, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (r *NoteRepository) ListForTask(ctx context.Context, taskID string) ([]models.TaskNote, error) {
	const query = `
		SELECT id, task_id, created_by, content, created_at, updated_at
		FROM task_notes
		WHERE task_id = $1
		ORDER BY created_at ASC`

	var notes []models.TaskNote
	if err := r.db.SelectContext(ctx, &notes, query, taskID); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}
