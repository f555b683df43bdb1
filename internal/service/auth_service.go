// internal/service/auth_service.go
package service

import (
	"context"
	"errors"

	"github.com/gurkanbulca/taskboard/internal/apperr"
	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/validation"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

// AuthService is the identity collaborator: it issues authenticated actors
// for the core. Credential handling stays here; task authorization never
// does.
type AuthService struct {
	users           UserStore
	tokenManager    *auth.TokenManager
	passwordManager *auth.PasswordManager
	rules           *validation.Config
	log             *logger.Logger
}

func NewAuthService(users UserStore, tokenManager *auth.TokenManager, log *logger.Logger) *AuthService {
	return &AuthService{
		users:           users,
		tokenManager:    tokenManager,
		passwordManager: auth.NewPasswordManager(),
		rules:           validation.DefaultConfig(),
		log:             log,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse carries the issued tokens and the public view of the user.
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := s.rules.Email(req.Email); err != nil {
		return nil, err
	}
	if err := s.rules.Username(req.Username); err != nil {
		return nil, err
	}
	if err := s.rules.FullName(req.FullName); err != nil {
		return nil, err
	}

	hash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, apperr.Validation(err.Error())
		}
		return nil, apperr.Internal("failed to hash password", err)
	}

	user, err := s.users.Create(ctx, &repository.UserInput{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Avatar:       req.Avatar,
		Role:         models.SystemRoleUser,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := s.passwordManager.ComparePassword(user.PasswordHash, req.Password); err != nil {
		s.log.Warn("failed login attempt", "user_id", user.ID)
		return nil, apperr.Unauthorized("invalid credentials")
	}

	s.log.Info("user logged in", "user_id", user.ID)
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	if req.RefreshToken == "" {
		return nil, apperr.Validation("refreshToken is required")
	}

	accessToken, expiresIn, err := s.tokenManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	return &AuthResponse{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, refreshToken, expiresIn, err := s.tokenManager.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperr.Internal("failed to issue tokens", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}
