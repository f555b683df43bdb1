// internal/handler/auth_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/middleware"
	"github.com/gurkanbulca/taskboard/internal/service"
)

// AuthHandler exposes identity endpoints: register, login, refresh and the
// authenticated profile.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
	log   *logger.Logger
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	resp, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, resp, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	resp, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp, "Login successful")
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	resp, err := h.auth.Refresh(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp, "Token refreshed")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		RespondUnauthorized(w, "unauthorized")
		return
	}

	user, err := h.users.Get(r.Context(), actor)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user, "Profile fetched successfully")
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		RespondUnauthorized(w, "unauthorized")
		return
	}

	var req service.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), actor, &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user, "Profile updated successfully")
}
