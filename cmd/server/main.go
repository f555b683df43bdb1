// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gurkanbulca/taskboard/internal/authz"
	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/handler"
	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/middleware"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/service"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

func main() {
	// .env is optional, environment variables win either way.
	_ = godotenv.Load()

	log := logger.New("taskboard-server")
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatal("invalid config", "error", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()
	log.Info("connected to database", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	tokenManager := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	policy := authz.FromConfig(cfg.Auth.Policy, memberRepo)
	log.Info("authorization policy selected", "policy", cfg.Auth.Policy)

	authService := service.NewAuthService(userRepo, tokenManager, log)
	userService := service.NewUserService(userRepo, log)
	taskService := service.NewTaskService(taskRepo, memberRepo, userRepo, policy, cfg.Auth.Policy, log)
	memberService := service.NewMemberService(taskRepo, memberRepo, userRepo, policy, log)
	noteService := service.NewNoteService(taskRepo, noteRepo, policy, log)
	subtaskService := service.NewSubtaskService()

	authn := middleware.NewAuthenticator(tokenManager, handler.RespondUnauthorized)

	router := handler.NewRouter(
		authn,
		handler.NewAuthHandler(authService, userService, log),
		handler.NewTaskHandler(taskService, subtaskService, log),
		handler.NewMemberHandler(memberService, log),
		handler.NewNoteHandler(noteService, log),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("http server listening", "port", cfg.Server.HTTPPort, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}
