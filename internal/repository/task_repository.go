// internal/repository/task_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/models"
)

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskInput carries the fields for task creation.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Attachments models.AttachmentList
}

// TaskUpdateInput carries partial updates. A nil field means "leave
// unchanged"; AssignedTo set to the empty string clears the assignee.
// AssignedBy is filled by the service, never from request payloads.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	AssignedTo  *string
	AssignedBy  string
}

// CreateWithCreator persists the task and, in the same transaction, enrolls
// the creator as task admin. A task must never exist with zero admins, so
// the two writes commit or roll back together. An initial assignee, if any,
// is enrolled as member in the same transaction.
func (r *TaskRepository) CreateWithCreator(ctx context.Context, input *TaskInput, creator *models.User, assignee *models.User) (*models.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		CreatedBy:   creator.ID,
		Attachments: input.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if assignee != nil {
		task.AssignedTo = sql.NullString{String: assignee.ID, Valid: true}
		task.AssignedBy = sql.NullString{String: creator.ID, Valid: true}
	}

	const insertTask = `
		INSERT INTO tasks (id, title, description, status, created_by, assigned_to, assigned_by, attachments, created_at, updated_at)
		VALUES (:id, :title, :description, :status, :created_by, :assigned_to, :assigned_by, :attachments, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertTask, task); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	if _, err := upsertMember(ctx, tx, task.ID, creator.ID, models.TaskRoleAdmin, creator.Username); err != nil {
		return nil, fmt.Errorf("enroll creator: %w", err)
	}

	if assignee != nil && assignee.ID != creator.ID {
		if _, err := upsertMember(ctx, tx, task.ID, assignee.ID, models.TaskRoleMember, assignee.Username); err != nil {
			return nil, fmt.Errorf("enroll assignee: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	const query = `
		SELECT id, title, description, status, created_by, assigned_to, assigned_by, attachments, created_at, updated_at
		FROM tasks
		WHERE id = $1`

	var t models.Task
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// Update applies the non-nil fields of input. Absent fields are untouched.
func (r *TaskRepository) Update(ctx context.Context, id string, input *TaskUpdateInput) (*models.Task, error) {
	sets := []string{"updated_at = :updated_at"}
	args := map[string]interface{}{
		"id":         id,
		"updated_at": time.Now().UTC(),
	}

	if input.Title != nil {
		sets = append(sets, "title = :title")
		args["title"] = *input.Title
	}
	if input.Description != nil {
		sets = append(sets, "description = :description")
		args["description"] = *input.Description
	}
	if input.Status != nil {
		sets = append(sets, "status = :status")
		args["status"] = *input.Status
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == "" {
			sets = append(sets, "assigned_to = NULL", "assigned_by = NULL")
		} else {
			sets = append(sets, "assigned_to = :assigned_to", "assigned_by = :assigned_by")
			args["assigned_to"] = *input.AssignedTo
			args["assigned_by"] = input.AssignedBy
		}
	}

	query := fmt.Sprintf(`
		UPDATE tasks SET %s
		WHERE id = :id
		RETURNING id, title, description, status, created_by, assigned_to, assigned_by, attachments, created_at, updated_at`,
		strings.Join(sets, ", "))

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, apperr.NotFound("task not found")
	}

	var t models.Task
	if err := rows.StructScan(&t); err != nil {
		return nil, fmt.Errorf("scan updated task: %w", err)
	}
	return &t, nil
}

// Delete removes the task record only. The membership cascade is a
// separate store call orchestrated by the service; cmd/reconcile collects
// any memberships stranded between the two steps.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("task not found")
	}
	return nil
}

type taskSummaryRow struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	Status           string         `db:"status"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	MyRole           sql.NullString `db:"my_role"`
	MemberCount      int            `db:"member_count"`
	AssigneeID       sql.NullString `db:"assignee_id"`
	AssigneeUsername sql.NullString `db:"assignee_username"`
	AssigneeFullName sql.NullString `db:"assignee_full_name"`
	AssigneeAvatar   sql.NullString `db:"assignee_avatar"`
}

func (row taskSummaryRow) summary() models.TaskSummary {
	s := models.TaskSummary{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      row.Status,
		MemberCount: row.MemberCount,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.MyRole.Valid {
		s.MyRole = models.TaskRole(row.MyRole.String)
	}
	if row.AssigneeID.Valid {
		s.AssignedTo = &models.PublicUser{
			ID:       row.AssigneeID.String,
			Username: row.AssigneeUsername.String,
			FullName: row.AssigneeFullName.String,
			Avatar:   row.AssigneeAvatar.String,
		}
	}
	return s
}

const taskSummaryColumns = `
	t.id, t.title, t.description, t.status, t.created_at, t.updated_at,
	m.role AS my_role,
	(SELECT COUNT(*) FROM task_members tm WHERE tm.task_id = t.id) AS member_count,
	a.id AS assignee_id, a.username AS assignee_username,
	a.full_name AS assignee_full_name, a.avatar AS assignee_avatar`

// ListForUser returns the list-view projection scoped to tasks the user is
// a member of, annotated with member count and the user's own role.
func (r *TaskRepository) ListForUser(ctx context.Context, userID string) ([]models.TaskSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks t
		JOIN task_members m ON m.task_id = t.id AND m.user_id = $1
		LEFT JOIN users a ON a.id = t.assigned_to
		ORDER BY t.created_at DESC`, taskSummaryColumns)

	var rows []taskSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list tasks for user: %w", err)
	}

	summaries := make([]models.TaskSummary, len(rows))
	for i, row := range rows {
		summaries[i] = row.summary()
	}
	return summaries, nil
}

// ListAll returns every task, still annotated with the viewer's role where
// a membership exists. Used only by the global-bypass policy.
func (r *TaskRepository) ListAll(ctx context.Context, viewerID string) ([]models.TaskSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks t
		LEFT JOIN task_members m ON m.task_id = t.id AND m.user_id = $1
		LEFT JOIN users a ON a.id = t.assigned_to
		ORDER BY t.created_at DESC`, taskSummaryColumns)

	var rows []taskSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, viewerID); err != nil {
		return nil, fmt.Errorf("list all tasks: %w", err)
	}

	summaries := make([]models.TaskSummary, len(rows))
	for i, row := range rows {
		summaries[i] = row.summary()
	}
	return summaries, nil
}

type taskDetailRow struct {
	ID               string                `db:"id"`
	Title            string                `db:"title"`
	Description      string                `db:"description"`
	Status           string                `db:"status"`
	Attachments      models.AttachmentList `db:"attachments"`
	CreatedAt        time.Time             `db:"created_at"`
	UpdatedAt        time.Time             `db:"updated_at"`
	AssigneeID       sql.NullString        `db:"assignee_id"`
	AssigneeUsername sql.NullString        `db:"assignee_username"`
	AssigneeFullName sql.NullString        `db:"assignee_full_name"`
	AssigneeAvatar   sql.NullString        `db:"assignee_avatar"`
}

type subtaskSummaryRow struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	IsCompleted     bool           `db:"is_completed"`
	CreatedAt       time.Time      `db:"created_at"`
	CreatorID       sql.NullString `db:"creator_id"`
	CreatorUsername sql.NullString `db:"creator_username"`
	CreatorFullName sql.NullString `db:"creator_full_name"`
	CreatorAvatar   sql.NullString `db:"creator_avatar"`
}

// GetDetail builds the detail-view projection: the task joined with its
// assignee's public profile and its subtask summaries, each carrying the
// subtask creator's public profile.
func (r *TaskRepository) GetDetail(ctx context.Context, id string) (*models.TaskDetail, error) {
	const taskQuery = `
		SELECT t.id, t.title, t.description, t.status, t.attachments, t.created_at, t.updated_at,
		       a.id AS assignee_id, a.username AS assignee_username,
		       a.full_name AS assignee_full_name, a.avatar AS assignee_avatar
		FROM tasks t
		LEFT JOIN users a ON a.id = t.assigned_to
		WHERE t.id = $1`

	var row taskDetailRow
	if err := r.db.GetContext(ctx, &row, taskQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, fmt.Errorf("get task detail: %w", err)
	}

	detail := &models.TaskDetail{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      row.Status,
		Attachments: row.Attachments,
		Subtasks:    []models.SubtaskSummary{},
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.AssigneeID.Valid {
		detail.AssignedTo = &models.PublicUser{
			ID:       row.AssigneeID.String,
			Username: row.AssigneeUsername.String,
			FullName: row.AssigneeFullName.String,
			Avatar:   row.AssigneeAvatar.String,
		}
	}

	const subtaskQuery = `
		SELECT s.id, s.title, s.is_completed, s.created_at,
		       u.id AS creator_id, u.username AS creator_username,
		       u.full_name AS creator_full_name, u.avatar AS creator_avatar
		FROM subtasks s
		LEFT JOIN users u ON u.id = s.created_by
		WHERE s.task_id = $1
		ORDER BY s.created_at ASC`

	var subtaskRows []subtaskSummaryRow
	if err := r.db.SelectContext(ctx, &subtaskRows, subtaskQuery, id); err != nil {
		return nil, fmt.Errorf("get task subtasks: %w", err)
	}

	for _, sr := range subtaskRows {
		summary := models.SubtaskSummary{
			ID:          sr.ID,
			Title:       sr.Title,
			IsCompleted: sr.IsCompleted,
			CreatedAt:   sr.CreatedAt,
		}
		if sr.CreatorID.Valid {
			summary.CreatedBy = &models.PublicUser{
				ID:       sr.CreatorID.String,
				Username: sr.CreatorUsername.String,
				FullName: sr.CreatorFullName.String,
				Avatar:   sr.CreatorAvatar.String,
			}
		}
		detail.Subtasks = append(detail.Subtasks, summary)
	}

	return detail, nil
}
