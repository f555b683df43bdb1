// internal/handler/router.go
package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gurkanbulca/taskboard/internal/middleware"
)

// NewRouter assembles the /api/v1 surface. Auth routes are public,
// everything else goes through the bearer-token authenticator.
func NewRouter(
	authn *middleware.Authenticator,
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	memberHandler *MemberHandler,
	noteHandler *NoteHandler,
) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	authed := api.PathPrefix("").Subrouter()
	authed.Use(authn.Middleware)

	authed.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	authed.HandleFunc("/auth/me", authHandler.UpdateProfile).Methods(http.MethodPut)

	authed.HandleFunc("/tasks", taskHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", taskHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{taskId}", taskHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{taskId}", taskHandler.Update).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{taskId}", taskHandler.Delete).Methods(http.MethodDelete)

	authed.HandleFunc("/tasks/{taskId}/subtasks", taskHandler.CreateSubtask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{taskId}/subtasks/{subtaskId}", taskHandler.UpdateSubtask).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{taskId}/subtasks/{subtaskId}", taskHandler.DeleteSubtask).Methods(http.MethodDelete)

	authed.HandleFunc("/tasks/{taskId}/members", memberHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{taskId}/members", memberHandler.Add).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{taskId}/members/{userId}", memberHandler.ChangeRole).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{taskId}/members/{userId}", memberHandler.Remove).Methods(http.MethodDelete)

	authed.HandleFunc("/tasks/{taskId}/notes", noteHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{taskId}/notes", noteHandler.Create).Methods(http.MethodPost)

	return r
}
