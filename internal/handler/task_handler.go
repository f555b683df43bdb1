// internal/handler/task_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gurkanbulca/taskboard/internal/authz"
	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/middleware"
	"github.com/gurkanbulca/taskboard/internal/service"
)

// TaskHandler exposes the task surface: list, detail, create, update,
// delete, plus the subtask capability slots.
type TaskHandler struct {
	tasks    *service.TaskService
	subtasks *service.SubtaskService
	log      *logger.Logger
}

func NewTaskHandler(tasks *service.TaskService, subtasks *service.SubtaskService, log *logger.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, subtasks: subtasks, log: log}
}

func actorOrAbort(w http.ResponseWriter, r *http.Request) (authz.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		RespondUnauthorized(w, "unauthorized")
		return authz.Actor{}, false
	}
	return actor, true
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(r.Context(), actor)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tasks, "Tasks fetched successfully")
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	detail, err := h.tasks.Get(r.Context(), actor, mux.Vars(r)["taskId"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, detail, "Task fetched successfully")
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req service.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	task, err := h.tasks.Create(r.Context(), actor, &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, task, "Task created successfully")
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req service.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	task, err := h.tasks.Update(r.Context(), actor, mux.Vars(r)["taskId"], &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, task, "Task updated successfully")
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), actor, mux.Vars(r)["taskId"]); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, nil, "Task deleted successfully")
}

func (h *TaskHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	if err := h.subtasks.Create(r.Context(), actor, mux.Vars(r)["taskId"]); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, nil, "Subtask created successfully")
}

func (h *TaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := h.subtasks.Update(r.Context(), actor, vars["taskId"], vars["subtaskId"]); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, nil, "Subtask updated successfully")
}

func (h *TaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := h.subtasks.Delete(r.Context(), actor, vars["taskId"], vars["subtaskId"]); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, nil, "Subtask deleted successfully")
}
