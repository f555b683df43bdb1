// internal/repository/member_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/models"
)

// MemberRepository is the membership store: the persisted (user, task) → role
// mapping. The composite unique index on (task_id, user_id) is the
// enforcement mechanism for the one-membership-per-pair invariant; callers
// never pre-check existence.
type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Upsert creates the membership or, if one already exists for the pair,
// updates its role and cached username. The ON CONFLICT clause makes the
// call atomic under concurrent adds: two simultaneous upserts for the same
// pair leave exactly one row, last writer winning on role.
func (r *MemberRepository) Upsert(ctx context.Context, taskID, userID string, role models.TaskRole, username string) (*models.TaskMember, error) {
	return upsertMember(ctx, r.db, taskID, userID, role, username)
}

// upsertMember is shared with TaskRepository so creator self-enrollment can
// run inside the task-creation transaction.
func upsertMember(ctx context.Context, q sqlx.ExtContext, taskID, userID string, role models.TaskRole, username string) (*models.TaskMember, error) {
	const query = `
		INSERT INTO task_members (id, task_id, user_id, role, username, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (task_id, user_id)
		DO UPDATE SET role = EXCLUDED.role, username = EXCLUDED.username, updated_at = EXCLUDED.updated_at
		RETURNING id, task_id, user_id, role, username, created_at, updated_at`

	var m models.TaskMember
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = sqlx.GetContext(ctx, q, &m, query, uuid.New().String(), taskID, userID, role, username, time.Now().UTC())
		if err == nil {
			return &m, nil
		}
		// ON CONFLICT closes the race, but a concurrent insert committed
		// between snapshot and write can still raise 23505; retrying turns
		// it into the update arm.
		if isUniqueViolation(err) {
			continue
		}
		break
	}
	// user_id is the only foreign key on task_members; the task reference
	// is app-managed so the deletion saga can cascade.
	if isForeignKeyViolation(err) {
		return nil, apperr.NotFound("user does not exist")
	}
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("task member already exists")
	}
	return nil, fmt.Errorf("upsert task member: %w", err)
}

// Find returns the membership for the pair, or NotFound.
func (r *MemberRepository) Find(ctx context.Context, taskID, userID string) (*models.TaskMember, error) {
	const query = `
		SELECT id, task_id, user_id, role, username, created_at, updated_at
		FROM task_members
		WHERE task_id = $1 AND user_id = $2`

	var m models.TaskMember
	err := r.db.GetContext(ctx, &m, query, taskID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("task member not found")
		}
		return nil, fmt.Errorf("find task member: %w", err)
	}
	return &m, nil
}

// UpdateRole changes an existing member's role. It never creates a
// membership: a missing pair is NotFound.
func (r *MemberRepository) UpdateRole(ctx context.Context, taskID, userID string, role models.TaskRole) (*models.TaskMember, error) {
	const query = `
		UPDATE task_members
		SET role = $3, updated_at = $4
		WHERE task_id = $1 AND user_id = $2
		RETURNING id, task_id, user_id, role, username, created_at, updated_at`

	var m models.TaskMember
	err := r.db.GetContext(ctx, &m, query, taskID, userID, role, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("task member not found")
		}
		return nil, fmt.Errorf("update member role: %w", err)
	}
	return &m, nil
}

// Remove deletes at most one membership; NotFound if none existed.
func (r *MemberRepository) Remove(ctx context.Context, taskID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM task_members WHERE task_id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("remove task member: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove task member: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("task member not found")
	}
	return nil
}

// RemoveAllForTask is the cascade used exclusively by task deletion.
func (r *MemberRepository) RemoveAllForTask(ctx context.Context, taskID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM task_members WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("remove task members: %w", err)
	}
	return nil
}

// ListForTask returns the raw memberships of a task.
func (r *MemberRepository) ListForTask(ctx context.Context, taskID string) ([]models.TaskMember, error) {
	const query = `
		SELECT id, task_id, user_id, role, username, created_at, updated_at
		FROM task_members
		WHERE task_id = $1`

	var members []models.TaskMember
	if err := r.db.SelectContext(ctx, &members, query, taskID); err != nil {
		return nil, fmt.Errorf("list task members: %w", err)
	}
	return members, nil
}

type memberInfoRow struct {
	TaskID    string          `db:"task_id"`
	Role      models.TaskRole `db:"role"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
	UserID    string          `db:"user_id"`
	Username  string          `db:"user_username"`
	FullName  string          `db:"user_full_name"`
	Avatar    string          `db:"user_avatar"`
	Email     string          `db:"user_email"`
}

// ListForTaskWithUsers joins memberships with their users, exposing only
// the whitelisted user columns.
func (r *MemberRepository) ListForTaskWithUsers(ctx context.Context, taskID string) ([]models.TaskMemberInfo, error) {
	const query = `
		SELECT m.task_id, m.role, m.created_at, m.updated_at,
		       u.id AS user_id, u.username AS user_username,
		       u.full_name AS user_full_name, u.avatar AS user_avatar,
		       u.email AS user_email
		FROM task_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.task_id = $1
		ORDER BY m.created_at ASC`

	var rows []memberInfoRow
	if err := r.db.SelectContext(ctx, &rows, query, taskID); err != nil {
		return nil, fmt.Errorf("list task members with users: %w", err)
	}

	infos := make([]models.TaskMemberInfo, len(rows))
	for i, row := range rows {
		infos[i] = models.TaskMemberInfo{
			TaskID:    row.TaskID,
			Role:      row.Role,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			User: models.MemberUser{
				ID:       row.UserID,
				Username: row.Username,
				FullName: row.FullName,
				Avatar:   row.Avatar,
				Email:    row.Email,
			},
		}
	}
	return infos, nil
}

// RefreshUsernames rewrites the cached username on every membership of a
// user. Called when the user's handle changes.
func (r *MemberRepository) RefreshUsernames(ctx context.Context, userID, username string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE task_members SET username = $2, updated_at = $3 WHERE user_id = $1`,
		userID, username, time.Now().UTC()); err != nil {
		return fmt.Errorf("refresh member usernames: %w", err)
	}
	return nil
}

// RemoveOrphaned deletes memberships whose task no longer exists. Task
// deletion removes the task row first and cascades memberships second, so a
// failed cascade strands rows; this sweep keeps that state transient.
func (r *MemberRepository) RemoveOrphaned(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM task_members m
		WHERE NOT EXISTS (SELECT 1 FROM tasks t WHERE t.id = m.task_id)`)
	if err != nil {
		return 0, fmt.Errorf("remove orphaned members: %w", err)
	}
	return res.RowsAffected()
}

// BackfillUsernames populates the username cache on memberships written
// before the cache existed.
func (r *MemberRepository) BackfillUsernames(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE task_members m
		SET username = u.username, updated_at = $1
		FROM users u
		WHERE u.id = m.user_id AND m.username = ''`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("backfill member usernames: %w", err)
	}
	return res.RowsAffected()
}

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a foreign-key violation.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
