// internal/handler/member_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/service"
)

// MemberHandler exposes membership management under a task.
type MemberHandler struct {
	members *service.MemberService
	log     *logger.Logger
}

func NewMemberHandler(members *service.MemberService, log *logger.Logger) *MemberHandler {
	return &MemberHandler{members: members, log: log}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	members, err := h.members.List(r.Context(), actor, mux.Vars(r)["taskId"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, members, "Task members fetched successfully")
}

func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req service.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	member, err := h.members.Add(r.Context(), actor, mux.Vars(r)["taskId"], &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, member, "Task member added successfully")
}

type changeRoleRequest struct {
	Role models.TaskRole `json:"role"`
}

func (h *MemberHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	vars := mux.Vars(r)
	member, err := h.members.ChangeRole(r.Context(), actor, vars["taskId"], vars["userId"], req.Role)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, member, "Task member role updated successfully")
}

func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := h.members.Remove(r.Context(), actor, vars["taskId"], vars["userId"]); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, nil, "Task member removed successfully")
}
