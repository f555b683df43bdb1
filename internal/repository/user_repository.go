// internal/repository/user_repository.go
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

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

type UserInput struct {
	Email        string
	Username     string
	PasswordHash string
	FullName     string
	Avatar       string
	Role         string
}

// UserUpdateInput carries partial profile updates; nil means unchanged.
type UserUpdateInput struct {
	Username *string
	FullName *string
	Avatar   *string
}

func (r *UserRepository) Create(ctx context.Context, input *UserInput) (*models.User, error) {
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		FullName:     input.FullName,
		Avatar:       input.Avatar,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	const query = `
		INSERT INTO users (id, email, username, password_hash, full_name, avatar, role, created_at, updated_at)
		VALUES (:id, :email, :username, :password_hash, :full_name, :avatar, :role, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email or username already in use")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

const userColumns = `id, email, username, password_hash, full_name, avatar, role, created_at, updated_at`

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// UpdateProfile applies the non-nil fields. A username change also rewrites
// the cached username on every membership of the user, in the same
// transaction, so the read-optimization cache never goes stale.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, input *UserUpdateInput) (*models.User, error) {
	sets := []string{"updated_at = :updated_at"}
	args := map[string]interface{}{
		"id":         id,
		"updated_at": time.Now().UTC(),
	}

	if input.Username != nil {
		sets = append(sets, "username = :username")
		args["username"] = *input.Username
	}
	if input.FullName != nil {
		sets = append(sets, "full_name = :full_name")
		args["full_name"] = *input.FullName
	}
	if input.Avatar != nil {
		sets = append(sets, "avatar = :avatar")
		args["avatar"] = *input.Avatar
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE id = :id
		RETURNING `+userColumns, strings.Join(sets, ", "))

	rows, err := tx.NamedQuery(query, args)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("username already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if !rows.Next() {
		rows.Close()
		return nil, apperr.NotFound("user not found")
	}

	var u models.User
	if err := rows.StructScan(&u); err != nil {
		rows.Close()
		return nil, fmt.Errorf("scan updated user: %w", err)
	}
	rows.Close()

	if input.Username != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE task_members SET username = $2, updated_at = $3 WHERE user_id = $1`,
			id, u.Username, time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("refresh member usernames: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &u, nil
}
