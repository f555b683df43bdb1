// internal/handler/note_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gurkanbulca/taskboard/internal/logger"
	"github.com/gurkanbulca/taskboard/internal/service"
)

// NoteHandler exposes task notes for members of a task.
type NoteHandler struct {
	notes *service.NoteService
	log   *logger.Logger
}

func NewNoteHandler(notes *service.NoteService, log *logger.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, log: log}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.List(r.Context(), actor, mux.Vars(r)["taskId"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, notes, "Task notes fetched successfully")
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req service.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	note, err := h.notes.Create(r.Context(), actor, mux.Vars(r)["taskId"], &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, note, "Task note created successfully")
}
