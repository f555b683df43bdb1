// cmd/reconcile/main.go
//
// Offline consistency sweep for task memberships. Run it periodically,
// or after incidents: it removes memberships whose task is gone and
// backfills empty username caches from the users table.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/repository"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("taskboard-reconcile")
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

	members := repository.NewMemberRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	removed, err := members.RemoveOrphaned(ctx)
	if err != nil {
		log.Fatal("failed to remove orphaned memberships", "error", err)
	}

	backfilled, err := members.BackfillUsernames(ctx)
	if err != nil {
		log.Fatal("failed to backfill usernames", "error", err)
	}

	log.Info("reconcile complete", "orphans_removed", removed, "usernames_backfilled", backfilled)
}
