// cmd/migrate/main.go
//
// Applies the schema. Statements are idempotent so the command can be
// re-run safely against an existing database.
package main

import (
	"github.com/joho/godotenv"

	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/logger"
)

// task_members.task_id carries no foreign key on purpose: task deletion
// removes the task row first and cascades membership afterwards, and the
// reconcile command sweeps anything the cascade missed.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL DEFAULT '',
		avatar        TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'todo',
		created_by  UUID NOT NULL REFERENCES users(id),
		assigned_to UUID REFERENCES users(id),
		assigned_by UUID REFERENCES users(id),
		attachments JSONB NOT NULL DEFAULT '[]',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS task_members (
		id         UUID PRIMARY KEY,
		task_id    UUID NOT NULL,
		user_id    UUID NOT NULL REFERENCES users(id),
		role       TEXT NOT NULL DEFAULT 'member',
		username   TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (task_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_members_user_id ON task_members (user_id)`,

	`CREATE TABLE IF NOT EXISTS subtasks (
		id         UUID PRIMARY KEY,
		task_id    UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT false,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS task_notes (
		id         UUID PRIMARY KEY,
		task_id    UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		created_by UUID NOT NULL REFERENCES users(id),
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func main() {
	_ = godotenv.Load()

	log := logger.New("taskboard-migrate")
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatal("migration failed", "statement", i, "error", err)
		}
	}

	log.Info("migrations applied", "statements", len(statements))
}
